package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperr "tavara/internal/errors"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

func ValidationError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// DomainError maps a domain error to its HTTP status, keeping the stable
// error code in the payload so clients can branch on it.
func DomainError(c *fiber.Ctx, err error) error {
	var derr *apperr.DomainError
	if !errors.As(err, &derr) {
		return ServerError(c, "Something went wrong")
	}

	status := fiber.StatusInternalServerError
	switch derr.Code {
	case apperr.ErrRequestNotFound.Code, apperr.ErrAgencyNotFound.Code:
		status = fiber.StatusNotFound
	case apperr.ErrAlreadyDecided.Code, apperr.ErrSubmissionPending.Code:
		status = fiber.StatusConflict
	case apperr.CodeValidationFailed, apperr.ErrReasonRequired.Code:
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{
		"error": derr.Message,
		"code":  derr.Code,
	})
}
