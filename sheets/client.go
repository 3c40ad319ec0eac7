package sheets

import (
	"despacho-api/config"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	ActionBitacora  = "bitacora"
	ActionContactos = "contactos"

	defaultTimeout = 10 * time.Second
)

var (
	ErrActionNotAllowed = errors.New("action not allowed")
	ErrNotConfigured    = errors.New("google sheets api key or spreadsheet id not configured")
)

// APIError is an error object returned by the Sheets API.
type APIError struct {
	Code    int
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google sheets api error: %s", e.Message)
}

type valuesResponse struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Client reads value ranges of a single spreadsheet. Only the ranges bound
// to a known action can be requested.
type Client struct {
	apiKey        string
	spreadsheetID string
	baseURL       string
	ranges        map[string]string
	timeout       time.Duration
}

func NewClient(cfg config.SheetsConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://sheets.googleapis.com"
	}

	return &Client{
		apiKey:        cfg.APIKey,
		spreadsheetID: cfg.SpreadsheetID,
		baseURL:       baseURL,
		ranges: map[string]string{
			ActionBitacora:  cfg.RangeBitacora,
			ActionContactos: cfg.RangeContactos,
		},
		timeout: defaultTimeout,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.spreadsheetID != ""
}

func (c *Client) valuesURL(sheetRange string) string {
	return fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		c.baseURL,
		url.PathEscape(c.spreadsheetID),
		url.PathEscape(sheetRange),
		url.QueryEscape(c.apiKey),
	)
}

// Values fetches the rows of the range bound to action. A range with no
// data yields an empty slice.
func (c *Client) Values(action string) ([][]interface{}, error) {
	sheetRange, ok := c.ranges[action]
	if !ok || sheetRange == "" {
		return nil, ErrActionNotAllowed
	}

	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	agent := fiber.Get(c.valuesURL(sheetRange)).Timeout(c.timeout)
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to fetch spreadsheet values: %w", errors.Join(errs...))
	}

	var response valuesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode spreadsheet response (status %d): %w", code, err)
	}

	if response.Error != nil {
		return nil, &APIError{
			Code:    response.Error.Code,
			Status:  response.Error.Status,
			Message: response.Error.Message,
		}
	}

	if code != fiber.StatusOK {
		return nil, fmt.Errorf("unexpected spreadsheet response status %d", code)
	}

	if response.Values == nil {
		return [][]interface{}{}, nil
	}
	return response.Values, nil
}
