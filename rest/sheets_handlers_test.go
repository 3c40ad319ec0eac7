package rest

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type fakeSheets struct {
	values [][]interface{}
	err    error
	calls  []string
}

func (f *fakeSheets) Values(action string) ([][]interface{}, error) {
	f.calls = append(f.calls, action)
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

func TestSheetsProxyHandler(t *testing.T) {
	rows := [][]interface{}{{"Unidad", "Estado"}, {"U-7", "En ruta"}}

	tests := []struct {
		name            string
		method          string
		target          string
		sheets          SheetsFetcher
		debug           bool
		expectedStatus  int
		expectedMessage string
		expectedRows    int
	}{
		{
			name:           "GET returns rows",
			method:         "GET",
			target:         "/sheets?action=bitacora",
			sheets:         &fakeSheets{values: rows},
			expectedStatus: fiber.StatusOK,
			expectedRows:   2,
		},
		{
			name:           "POST with query action",
			method:         "POST",
			target:         "/sheets?action=contactos",
			sheets:         &fakeSheets{values: rows},
			expectedStatus: fiber.StatusOK,
			expectedRows:   2,
		},
		{
			name:            "Missing action",
			method:          "GET",
			target:          "/sheets",
			sheets:          &fakeSheets{values: rows},
			expectedStatus:  fiber.StatusBadRequest,
			expectedMessage: `Parameter "action" is required`,
		},
		{
			name:            "Upstream failure hides detail",
			method:          "GET",
			target:          "/sheets?action=bitacora",
			sheets:          &fakeSheets{err: errors.New("API key not valid")},
			expectedStatus:  fiber.StatusBadRequest,
			expectedMessage: "Failed to fetch spreadsheet data",
		},
		{
			name:            "Upstream failure in debug mode",
			method:          "GET",
			target:          "/sheets?action=bitacora",
			sheets:          &fakeSheets{err: errors.New("API key not valid")},
			debug:           true,
			expectedStatus:  fiber.StatusBadRequest,
			expectedMessage: "API key not valid",
		},
		{
			name:            "No client configured",
			method:          "GET",
			target:          "/sheets?action=bitacora",
			sheets:          nil,
			expectedStatus:  fiber.StatusBadRequest,
			expectedMessage: "Failed to fetch spreadsheet data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(Options{Sheets: tt.sheets, Debug: tt.debug})

			req := httptest.NewRequest(tt.method, tt.target, nil)
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("Failed to perform request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}
			if got := resp.Header.Get(fiber.HeaderCacheControl); got != "public, max-age=300" {
				t.Errorf("Expected Cache-Control 'public, max-age=300', got '%s'", got)
			}

			var response SheetsResponse
			if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if tt.expectedMessage != "" && response.Message != tt.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tt.expectedMessage, response.Message)
			}
			if len(response.Data) != tt.expectedRows {
				t.Errorf("Expected %d rows, got %d", tt.expectedRows, len(response.Data))
			}
		})
	}
}
