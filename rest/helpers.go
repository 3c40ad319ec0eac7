package rest

import (
	"bytes"
	"context"
	"despacho-api/db"
	"despacho-api/logger"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ReturnBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{
		Success: false,
		Message: message,
	})
}

func ReturnNotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(MessageResponse{
		Success: false,
		Message: message,
	})
}

func ReturnInternalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(MessageResponse{
		Success: false,
		Message: message,
	})
}

func ReturnServiceUnavailable(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(MessageResponse{
		Success: false,
		Message: message,
	})
}

// withDetail appends err to message when debug output is enabled.
func withDetail(message string, err error) string {
	if !options.Debug || err == nil {
		return message
	}
	return fmt.Sprintf("%s: %v", message, err)
}

// ReturnError maps a repository error to a response. Validation messages are
// always shown; anything else only in debug mode.
func ReturnError(c *fiber.Ctx, err error, message string) error {
	var validationErr *db.ValidationError
	if errors.As(err, &validationErr) {
		return ReturnBadRequest(c, validationErr.Message)
	}

	logger.Error(message,
		zap.Error(err),
		zap.String("request_id", requestID(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	)

	switch {
	case errors.Is(err, db.ErrStorageUnavailable):
		return ReturnServiceUnavailable(c, withDetail("Database temporarily unavailable", err))
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(MessageResponse{
			Success: false,
			Message: withDetail("Request timed out", err),
		})
	default:
		return ReturnInternalError(c, withDetail(message, err))
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// decodeJSONBody reads the raw body as a JSON object regardless of the
// Content-Type header. Numbers are kept as json.Number.
func decodeJSONBody(c *fiber.Ctx, v interface{}) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || body[0] != '{' {
		return errors.New("body must be a JSON object")
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	return decoder.Decode(v)
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
