package controller

import (
	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInvoiceController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
}

type invoiceController struct {
	service   service.IInvoiceService
	jwtSecret string
}

func NewInvoiceController(service service.IInvoiceService, jwtSecret string) IInvoiceController {
	return &invoiceController{service: service, jwtSecret: jwtSecret}
}

func (c *invoiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/invoices/v1", serverutils.JWTMiddleware(c.jwtSecret))
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/send", c.Send)
}

func (c *invoiceController) List(ctx *fiber.Ctx) error {
	tenantId, err := serverutils.TenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.ListForTenant(ctx.Context(), tenantId, limit, offset)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Success get invoices", res)
}

func (c *invoiceController) Show(ctx *fiber.Ctx) error {
	tenantId, err := serverutils.TenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid invoice id")
	}

	res, err := c.service.GetForTenant(ctx.Context(), tenantId, id)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, "Success get invoice", res)
}

func (c *invoiceController) Send(ctx *fiber.Ctx) error {
	tenantId, err := serverutils.TenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid invoice id")
	}

	var req dto.SendInvoiceRequest
	if len(ctx.Body()) > 0 {
		if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
			return err
		}
	}

	if err := c.service.Send(ctx.Context(), tenantId, id, req.Email); err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusAccepted, "Invoice queued for delivery", nil)
}
