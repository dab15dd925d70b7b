package serverutils

import (
	"fmt"

	"watch-party-be/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type APIError struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) APIError {
	return APIError{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ValidateRequest runs struct tag validation and maps failures onto the
// validation error class so the middleware renders a 422.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	return nil
}

// ErrorHandlerMiddleware translates service errors bubbled out of handlers
// into the response envelope. Internal errors keep their detail in the log,
// not in the body.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := apperrors.HTTPStatus(err)
		message := err.Error()
		if status == fiber.StatusInternalServerError {
			message = "internal server error"
		}

		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}
