package rest

import (
	"despacho-api/db"
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthResponse struct {
	Status   string    `json:"status"`
	Time     time.Time `json:"time"`
	Database string    `json:"database"`
}

func HealthHandler(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:   "ok",
		Time:     time.Now().UTC(),
		Database: "ok",
	}

	if err := db.Ping(); err != nil {
		response.Status = "degraded"
		response.Database = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}

	return c.JSON(response)
}
