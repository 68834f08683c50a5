package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ParseAndValidate binds the request body to dto and runs struct validation,
// returning a 400 response on failure.
func ParseAndValidate(c *fiber.Ctx, dto interface{}) error {
	if err := c.BodyParser(dto); err != nil {
		return NewApiError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := validate.Struct(dto); err != nil {
		var details []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			details = append(details, fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
		}
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", details)
	}

	return nil
}
