package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ApiResponse is the envelope every endpoint returns.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// ApiError carries an HTTP status alongside the error so controllers can
// surface domain failures with the right code.
type ApiError struct {
	StatusCode int
	Message    string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(statusCode int, message string) *ApiError {
	return &ApiError{StatusCode: statusCode, Message: message}
}

func SuccessResponse(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return c.Status(statusCode).JSON(ApiResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, errs interface{}) error {
	return c.Status(statusCode).JSON(ApiResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// ErrorHandlerMiddleware is the fiber app-level error handler.
func ErrorHandlerMiddleware(c *fiber.Ctx, err error) error {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return ErrorResponse(c, apiErr.StatusCode, apiErr.Message, nil)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", nil)
}
