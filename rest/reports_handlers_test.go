package rest

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSaveReportHandler(t *testing.T) {
	setupTestDB(t)
	defer teardownTestDB()

	app := setupTestApp(Options{})

	var firstID int64

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name: "New report",
			body: `{
				"titulo": "Informe diario",
				"fecha_despacho": "15-03-2024",
				"total_despachos": "12",
				"a_tiempo": 9.7,
				"con_retraso": "08",
				"datos_informe": {"tabs": ["resumen"]}
			}`,
			expectedStatus: fiber.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var response ReportSaveResponse
				if err := json.Unmarshal(body, &response); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				if response.Message != "Report saved successfully" {
					t.Errorf("Expected message 'Report saved successfully', got '%s'", response.Message)
				}
				if response.Action != "inserted" {
					t.Errorf("Expected action 'inserted', got '%s'", response.Action)
				}
				if response.FechaDespacho != "2024-03-15" {
					t.Errorf("Expected fecha_despacho '2024-03-15', got '%s'", response.FechaDespacho)
				}
				firstID = response.ID
			},
		},
		{
			name:           "Same dispatch date overwrites",
			body:           `{"titulo": "Informe corregido", "fecha_despacho": "2024-03-15", "datos_informe": "texto libre"}`,
			expectedStatus: fiber.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var response ReportSaveResponse
				if err := json.Unmarshal(body, &response); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				if response.Message != "Report updated successfully" {
					t.Errorf("Expected message 'Report updated successfully', got '%s'", response.Message)
				}
				if response.ID != firstID {
					t.Errorf("Expected id %d, got %d", firstID, response.ID)
				}
			},
		},
		{
			name:           "Missing titulo",
			body:           `{"datos_informe": {"a": 1}}`,
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name:           "Empty datos_informe",
			body:           `{"titulo": "Vacío", "datos_informe": {}}`,
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name:           "Invalid fecha_despacho",
			body:           `{"titulo": "X", "fecha_despacho": "2024/03/15", "datos_informe": "x"}`,
			expectedStatus: fiber.StatusBadRequest,
			checkResponse: func(t *testing.T, body []byte) {
				var response MessageResponse
				if err := json.Unmarshal(body, &response); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				if response.Message != "Invalid fecha_despacho format. Use YYYY-MM-DD or DD-MM-YYYY" {
					t.Errorf("Unexpected message '%s'", response.Message)
				}
			},
		},
		{
			name:           "Invalid JSON",
			body:           "{titulo",
			expectedStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, "POST", "/informes", tt.body)
			if status != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, status, body)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, body)
			}
		})
	}
}

func TestReportsReadAndDeleteHandlers(t *testing.T) {
	setupTestDB(t)
	defer teardownTestDB()

	app := setupTestApp(Options{})

	status, body := doRequest(t, app, "GET", "/informes", "")
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	var empty ReportListResponse
	if err := json.Unmarshal(body, &empty); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if empty.Message != "No saved reports" {
		t.Errorf("Expected message 'No saved reports', got '%s'", empty.Message)
	}

	_, body = doRequest(t, app, "POST", "/informes",
		`{"titulo": "Informe", "fecha_despacho": "2024-03-15", "total_despachos": 4, "datos_informe": {"tabs": [1, 2]}}`)
	var jsonReport SaveResponse
	if err := json.Unmarshal(body, &jsonReport); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	_, body = doRequest(t, app, "POST", "/informes",
		`{"titulo": "Notas", "fecha_despacho": "2024-03-16", "datos_informe": "solo texto"}`)
	var textReport SaveResponse
	if err := json.Unmarshal(body, &textReport); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	status, body = doRequest(t, app, "GET", "/informes", "")
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	var list ReportListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if list.Count != 2 {
		t.Fatalf("Expected 2 reports, got %d", list.Count)
	}
	var raw map[string][]map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if _, ok := raw["data"][0]["datos_informe"]; ok {
		t.Error("Expected list entries without datos_informe")
	}

	status, body = doRequest(t, app, "GET", "/informes/"+strconv.FormatInt(jsonReport.ID, 10), "")
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	var detail ReportDetailEnvelope
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if detail.Data.TotalDespachos != 4 {
		t.Errorf("Expected total_despachos 4, got %d", detail.Data.TotalDespachos)
	}
	if detail.Data.DatosInforme != `{"tabs":[1,2]}` {
		t.Errorf("Expected compact datos_informe, got '%s'", detail.Data.DatosInforme)
	}
	if string(detail.Data.DatosInformeDecoded) != `{"tabs":[1,2]}` {
		t.Errorf("Expected decoded datos_informe, got '%s'", detail.Data.DatosInformeDecoded)
	}

	_, body = doRequest(t, app, "GET", "/informes/"+strconv.FormatInt(textReport.ID, 10), "")
	var textDetail ReportDetailEnvelope
	if err := json.Unmarshal(body, &textDetail); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if textDetail.Data.DatosInforme != "solo texto" {
		t.Errorf("Expected datos_informe 'solo texto', got '%s'", textDetail.Data.DatosInforme)
	}
	if textDetail.Data.DatosInformeDecoded != nil {
		t.Errorf("Expected no decoded payload for plain text, got '%s'", textDetail.Data.DatosInformeDecoded)
	}

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"Delete existing", "DELETE", "/informes/" + strconv.FormatInt(textReport.ID, 10), fiber.StatusOK},
		{"Delete again", "DELETE", "/informes/" + strconv.FormatInt(textReport.ID, 10), fiber.StatusNotFound},
		{"Get deleted", "GET", "/informes/" + strconv.FormatInt(textReport.ID, 10), fiber.StatusNotFound},
		{"Invalid id", "GET", "/informes/uno", fiber.StatusBadRequest},
		{"Delete invalid id", "DELETE", "/informes/-3", fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, tt.method, tt.path, "")
			if status != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, status, body)
			}
		})
	}
}

func TestToCounter(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  int
	}{
		{"nil", nil, 0},
		{"json number", json.Number("12"), 12},
		{"fraction truncated", json.Number("9.7"), 9},
		{"numeric string", "15", 15},
		{"leading zero", "08", 8},
		{"padded string", " 3 ", 3},
		{"garbage string", "muchos", 0},
		{"true", true, 1},
		{"false", false, 0},
		{"object", map[string]interface{}{"n": 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toCounter(tt.input); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestReportPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"missing", "", ""},
		{"null", "null", ""},
		{"object compacted", `{ "a" : [1, 2] }`, `{"a":[1,2]}`},
		{"empty object", `{ }`, ""},
		{"empty array", `[]`, ""},
		{"string unquoted", `"hola"`, "hola"},
		{"number kept", `42`, "42"},
		{"false", `false`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ReportRequest{DatosInforme: json.RawMessage(tt.raw)}
			if got := req.payload(); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}
