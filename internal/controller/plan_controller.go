package controller

import (
	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type planController struct {
	service   service.IPlanService
	jwtSecret string
}

func NewPlanController(service service.IPlanService, jwtSecret string) IPlanController {
	return &planController{service: service, jwtSecret: jwtSecret}
}

func (c *planController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/plans/v1")
	h.Get("", c.List)
	h.Get(":slug", c.Show)

	admin := h.Group("", serverutils.JWTMiddleware(c.jwtSecret), serverutils.RequireLandlord())
	admin.Post("", c.Create)
	admin.Put(":id", c.Update)
	admin.Delete(":id", c.Delete)
}

func (c *planController) List(ctx *fiber.Ctx) error {
	res, err := c.service.ListActive(ctx.Context())
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Success get plans", res)
}

func (c *planController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetBySlug(ctx.Context(), ctx.Params("slug"))
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Success get plan", res)
}

func (c *planController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePlanRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusCreated, "Plan created", res)
}

func (c *planController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid plan id")
	}

	var req dto.UpdatePlanRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Plan updated", res)
}

func (c *planController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid plan id")
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Plan deleted", nil)
}
