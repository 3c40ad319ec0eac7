package rest

import (
	"despacho-api/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SheetsResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    [][]interface{} `json:"data"`
}

func SheetsProxyHandler(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")

	action := c.Query("action")
	if action == "" {
		return ReturnBadRequest(c, `Parameter "action" is required`)
	}

	if options.Sheets == nil {
		return ReturnBadRequest(c, "Failed to fetch spreadsheet data")
	}

	values, err := options.Sheets.Values(action)
	if err != nil {
		sheetsErrorsTotal.WithLabelValues(action).Inc()
		logger.Warn("sheets proxy request failed",
			zap.String("action", action),
			zap.Error(err),
			zap.String("request_id", requestID(c)),
		)
		message := "Failed to fetch spreadsheet data"
		if options.Debug {
			message = err.Error()
		}
		return ReturnBadRequest(c, message)
	}

	return c.JSON(SheetsResponse{
		Success: true,
		Message: "Data retrieved successfully",
		Data:    values,
	})
}
