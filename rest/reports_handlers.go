package rest

import (
	"despacho-api/db"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func SaveReportHandler(c *fiber.Ctx) error {
	var req ReportRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return ReturnBadRequest(c, withDetail("Invalid JSON body", err))
	}

	submission := req.submission()
	result, err := db.SaveReport(c.UserContext(), submission)
	if err != nil {
		return ReturnError(c, err, "Failed to save report")
	}

	message := "Report updated successfully"
	if result.Inserted {
		message = "Report saved successfully"
	}

	response := ReportSaveResponse{
		SaveResponse: SaveResponse{
			Success: true,
			Message: message,
			ID:      result.ID,
			Action:  saveAction(result.Inserted),
		},
	}
	if report, err := db.GetReport(c.UserContext(), result.ID); err == nil && report != nil {
		response.FechaDespacho = report.FechaDespacho
	}

	return c.JSON(response)
}

func ListReportsHandler(c *fiber.Ctx) error {
	reports, err := db.ListReports(c.UserContext())
	if err != nil {
		return ReturnError(c, err, "Failed to retrieve reports")
	}

	data := make([]ReportSummaryResponse, len(reports))
	for i, r := range reports {
		data[i] = toReportSummaryResponse(r)
	}

	message := "Reports retrieved successfully"
	if len(data) == 0 {
		message = "No saved reports"
	}

	return c.JSON(ReportListResponse{
		Success: true,
		Message: message,
		Data:    data,
		Count:   len(data),
	})
}

func GetReportHandler(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return ReturnBadRequest(c, "Invalid id")
	}

	report, err := db.GetReport(c.UserContext(), id)
	if err != nil {
		return ReturnError(c, err, "Failed to retrieve report")
	}
	if report == nil {
		return ReturnNotFound(c, "Report not found")
	}

	detail := ReportDetailResponse{
		ReportSummaryResponse: toReportSummaryResponse(*report),
		DatosInforme:          report.DatosInforme,
	}
	if report.DatosInforme != "" && json.Valid([]byte(report.DatosInforme)) {
		detail.DatosInformeDecoded = json.RawMessage(report.DatosInforme)
	}

	return c.JSON(ReportDetailEnvelope{
		Success: true,
		Message: "Report found",
		Data:    detail,
	})
}

func DeleteReportHandler(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return ReturnBadRequest(c, "Invalid id")
	}

	err := db.DeleteReport(c.UserContext(), id)
	if errors.Is(err, db.ErrNotFound) {
		return ReturnNotFound(c, "Report not found")
	}
	if err != nil {
		return ReturnError(c, err, "Failed to delete report")
	}

	return c.JSON(MessageResponse{
		Success: true,
		Message: "Report deleted successfully",
	})
}
