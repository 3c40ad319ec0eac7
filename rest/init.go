package rest

import (
	"despacho-api/logger"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/timeout"
)

// SheetsFetcher reads the rows bound to a proxy action.
type SheetsFetcher interface {
	Values(action string) ([][]interface{}, error)
}

type Options struct {
	// Debug echoes internal error detail to clients.
	Debug bool

	Sheets SheetsFetcher

	// RequestTimeout bounds every handler that touches the database.
	// Zero disables the deadline.
	RequestTimeout time.Duration
}

var options Options

func withTimeout(handler fiber.Handler) fiber.Handler {
	if options.RequestTimeout <= 0 {
		return handler
	}
	return timeout.NewWithContext(handler, options.RequestTimeout)
}

func Init(app *fiber.App, opts Options) {
	options = opts

	SetupSwagger(app)

	app.Get("/health", HealthHandler)

	app.Post("/seguimiento", withTimeout(SaveDispatchRecordHandler))
	app.Get("/seguimiento", withTimeout(ListDispatchRecordsHandler))
	app.Get("/seguimiento/:id", withTimeout(GetDispatchRecordHandler))

	app.Post("/informes", withTimeout(SaveReportHandler))
	app.Get("/informes", withTimeout(ListReportsHandler))
	app.Get("/informes/:id", withTimeout(GetReportHandler))
	app.Delete("/informes/:id", withTimeout(DeleteReportHandler))

	app.Get("/contactos/emergencia", withTimeout(ListEmergencyNumbersHandler))
	app.Get("/contactos/:id", withTimeout(GetContactHandler))

	app.Get("/sheets", SheetsProxyHandler)
	app.Post("/sheets", SheetsProxyHandler)

	logger.Info("REST API routes registered")
}
