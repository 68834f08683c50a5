package controller

import (
	"time"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	Current(ctx *fiber.Ctx) error
	Renew(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	ChangePlan(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	service   service.ISubscriptionService
	jwtSecret string
}

func NewSubscriptionController(service service.ISubscriptionService, jwtSecret string) ISubscriptionController {
	return &subscriptionController{service: service, jwtSecret: jwtSecret}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscriptions/v1", serverutils.JWTMiddleware(c.jwtSecret))
	h.Get("current", c.Current)
	h.Post("cancel", c.Cancel)
	h.Put("plan", c.ChangePlan)

	admin := h.Group("", serverutils.RequireLandlord())
	admin.Post(":id/renew", c.Renew)
}

func (c *subscriptionController) Current(ctx *fiber.Ctx) error {
	tenantId, err := serverutils.TenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetCurrent(ctx.Context(), tenantId)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Success get subscription", res)
}

func (c *subscriptionController) Renew(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid subscription id")
	}

	var req dto.RenewSubscriptionRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	sub, err := c.service.Renew(ctx.Context(), id, req.DurationDays)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Subscription renewed", dto.ToSubscriptionResponse(sub, time.Now()))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	tenantId, err := serverutils.TenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	var req dto.CancelSubscriptionRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Cancel(ctx.Context(), tenantId, &req)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Subscription canceled", res)
}

func (c *subscriptionController) ChangePlan(ctx *fiber.Ctx) error {
	tenantId, err := serverutils.TenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	var req dto.ChangePlanRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ChangePlan(ctx.Context(), tenantId, req.PlanSlug)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Plan changed", res)
}
