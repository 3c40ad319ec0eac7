package rest

import (
	"despacho-api/db"
	"despacho-api/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func SaveDispatchRecordHandler(c *fiber.Ctx) error {
	var req DispatchRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return ReturnBadRequest(c, withDetail("Invalid JSON body", err))
	}

	result, err := db.SaveDispatchRecord(c.UserContext(), req.submission())
	if err != nil {
		return ReturnError(c, err, "Failed to save dispatch record")
	}

	action := saveAction(result.Inserted)
	dispatchSavesTotal.WithLabelValues(action).Inc()
	logger.Info("dispatch record saved",
		zap.Int64("id", result.ID),
		zap.String("action", action),
		zap.String("request_id", requestID(c)),
	)

	return c.JSON(SaveResponse{
		Success: true,
		Message: "Dispatch record saved successfully",
		ID:      result.ID,
		Action:  action,
	})
}

func ListDispatchRecordsHandler(c *fiber.Ctx) error {
	records, err := db.ListDispatchRecords(c.UserContext())
	if err != nil {
		return ReturnError(c, err, "Failed to retrieve dispatch records")
	}

	data := make([]DispatchRecordResponse, len(records))
	for i, r := range records {
		data[i] = toDispatchRecordResponse(r)
	}

	return c.JSON(DispatchListResponse{
		Success: true,
		Message: "Dispatch records retrieved successfully",
		Data:    data,
		Count:   len(data),
	})
}

func GetDispatchRecordHandler(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return ReturnBadRequest(c, "Invalid id")
	}

	record, err := db.GetDispatchRecord(c.UserContext(), id)
	if err != nil {
		return ReturnError(c, err, "Failed to retrieve dispatch record")
	}
	if record == nil {
		return ReturnNotFound(c, "Dispatch record not found")
	}

	incidents, err := db.GetIncidents(c.UserContext(), id)
	if err != nil {
		return ReturnError(c, err, "Failed to retrieve incidents")
	}

	detail := make([]IncidentResponse, len(incidents))
	for i, inc := range incidents {
		detail[i] = IncidentResponse{
			ID:        inc.ID,
			Tipo:      inc.Tipo,
			Severidad: inc.Severidad,
			Fecha:     inc.Fecha,
			Direccion: inc.Direccion,
		}
	}

	return c.JSON(DispatchDetailEnvelope{
		Success: true,
		Message: "Dispatch record found",
		Data: DispatchDetailResponse{
			DispatchRecordResponse: toDispatchRecordResponse(*record),
			Revision:               record.Revision,
			CreatedAt:              record.CreatedAt,
			UpdatedAt:              record.UpdatedAt,
			IncidenciasDetalle:     detail,
		},
	})
}
