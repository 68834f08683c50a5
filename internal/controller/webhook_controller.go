package controller

import (
	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	MidtransNotification(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IPaymentService
}

func NewWebhookController(service service.IPaymentService) IWebhookController {
	return &webhookController{service: service}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhooks/v1")
	h.Post("midtrans", c.MidtransNotification)
}

func (c *webhookController) MidtransNotification(ctx *fiber.Ctx) error {
	var req dto.MidtransNotification
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid notification body")
	}

	if err := c.service.HandleNotification(ctx.Context(), &req); err != nil {
		// The gateway retries on non-2xx. Signature failures are terminal,
		// everything else is worth a retry.
		if err.Error() == "invalid signature" {
			return serverutils.NewApiError(fiber.StatusForbidden, "Invalid signature")
		}
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Notification processed", nil)
}
