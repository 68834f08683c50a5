package controller

import (
	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITenantController interface {
	RegisterRoutes(r fiber.Router)
	Signup(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type tenantController struct {
	service   service.ITenantService
	jwtSecret string
}

func NewTenantController(service service.ITenantService, jwtSecret string) ITenantController {
	return &tenantController{service: service, jwtSecret: jwtSecret}
}

func (c *tenantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tenants/v1")
	h.Post("signup", c.Signup)

	admin := h.Group("", serverutils.JWTMiddleware(c.jwtSecret), serverutils.RequireLandlord())
	admin.Get("", c.List)
	admin.Get(":id", c.Show)
	admin.Put(":id", c.Update)
}

func (c *tenantController) Signup(ctx *fiber.Ctx) error {
	var req dto.SignupTenantRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Signup(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusCreated, "Tenant created", res)
}

func (c *tenantController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Success get tenants", res)
}

func (c *tenantController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid tenant id")
	}

	res, err := c.service.Get(ctx.Context(), id)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Success get tenant", res)
}

func (c *tenantController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid tenant id")
	}

	var req dto.UpdateTenantRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Tenant updated", res)
}
