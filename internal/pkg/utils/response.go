package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/streetsmart-service/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int      `json:"total,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// StatusResponse - конверт совместимых эндпоинтов /api/requests и /api/upvote
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.As(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}

// SendStatusSuccess - {"status": "success"}
func SendStatusSuccess(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{Status: "success"})
}

// SendStatusError - {"status": "error", "message": ...} с кодом из AppError (иначе 500)
func SendStatusError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	if appErr, ok := errors.As(err); ok {
		code = appErr.StatusCode
		message = appErr.Message
	}

	return c.Status(code).JSON(StatusResponse{
		Status:  "error",
		Message: message,
	})
}
