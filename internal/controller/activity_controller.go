package controller

import (
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
}

type activityController struct {
	service   service.IActivityService
	jwtSecret string
}

func NewActivityController(service service.IActivityService, jwtSecret string) IActivityController {
	return &activityController{service: service, jwtSecret: jwtSecret}
}

func (c *activityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/activities/v1", serverutils.JWTMiddleware(c.jwtSecret))
	h.Get("", c.List)
}

func (c *activityController) List(ctx *fiber.Ctx) error {
	tenantId, err := serverutils.TenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.ListForTenant(ctx.Context(), tenantId, limit, offset)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Success get activities", res)
}
