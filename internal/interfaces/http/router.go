package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-editor/internal/application/editor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SessionUC   *editor.SessionUseCase
	RenderUC    *editor.RenderUseCase
	ExportLimit *ExportRateLimiter // nil = sin límite
	JWTSecret   string             // vacío = sesiones sin token
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	limited := func(c *fiber.Ctx) error { return c.Next() }
	if deps.ExportLimit != nil {
		limited = deps.ExportLimit.Middleware()
	}

	// Países (público)
	countryHandler := NewCountryHandler()
	api.Get("/countries", countryHandler.List)

	// Render sin sesión (público, limitado)
	render := api.Group("/render", limited)
	renderHandler := NewRenderHandler(deps.RenderUC)
	render.Post("/pdf", renderHandler.PDF)
	render.Post("/xlsx", renderHandler.XLSX)

	// Sesiones de edición
	invoices := api.Group("/invoices")
	h := NewInvoiceHandler(deps.SessionUC)
	renew := RenewEditToken(deps.SessionUC)
	edit := []fiber.Handler{SessionGuard(deps.JWTSecret, false), renew}
	read := []fiber.Handler{SessionGuard(deps.JWTSecret, true), renew}
	with := func(guard []fiber.Handler, hs ...fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), hs...)
	}

	invoices.Post("/", h.Create)
	invoices.Get("/:id", with(read, h.Get)...)
	invoices.Delete("/:id", SessionGuard(deps.JWTSecret, false), h.Delete)
	invoices.Patch("/:id/fields", with(edit, h.SetField)...)
	invoices.Put("/:id/tax", with(edit, h.SetTax)...)
	invoices.Put("/:id/discount", with(edit, h.SetDiscount)...)
	invoices.Post("/:id/lines", with(edit, h.AddLine)...)
	invoices.Patch("/:id/lines/:index", with(edit, h.UpdateLine)...)
	invoices.Delete("/:id/lines/:index", with(edit, h.RemoveLine)...)
	invoices.Post("/:id/logo", with(edit, h.UploadLogo)...)
	invoices.Post("/:id/share", with(edit, h.Share)...)
	invoices.Post("/:id/token", SessionGuard(deps.JWTSecret, false), h.RefreshToken)
	invoices.Get("/:id/pdf", with(read, limited, h.ExportPDF)...)
	invoices.Get("/:id/xlsx", with(read, limited, h.ExportXLSX)...)
}
