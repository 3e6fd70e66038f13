package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/taller-dashboard/internal/application/dto"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Export    *ExportHandler
	Reports   *ReportHandler
	JWTSecret string
	JWTIssuer string
	Service   string
	Engine    string
}

// historyRoles roles con acceso a la bitácora cuando el token se valida localmente.
var historyRoles = []string{"admin", "staff"}

// Router registra las rutas del servicio de exportación.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: deps.Service, Engine: deps.Engine})
	})

	// Rutas protegidas (requieren Bearer Token)
	exports := app.Group("/api/exports", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	invoices := exports.Group("/invoices")
	invoices.Get("/:id/preview", deps.Export.Preview)
	invoices.Get("/:id/pdf", deps.Export.PDF)

	reportsGroup := exports.Group("/reports")
	reportsGroup.Get("/revenue-summary", deps.Reports.RevenueSummary)
	reportsGroup.Get("/:bucket/csv", deps.Reports.CSV)

	if deps.JWTSecret != "" {
		exports.Get("/history", RequireRole(historyRoles...), deps.Reports.History)
	} else {
		exports.Get("/history", deps.Reports.History)
	}
}
