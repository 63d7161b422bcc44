package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/invoice-editor/docs"
	"github.com/jhoicas/invoice-editor/internal/application/editor"
	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/invoice"
	"github.com/jhoicas/invoice-editor/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/invoice-editor/internal/infrastructure/pdf"
	infraxlsx "github.com/jhoicas/invoice-editor/internal/infrastructure/xlsx"
	"github.com/jhoicas/invoice-editor/internal/infrastructure/yamlfile"
	httpRouter "github.com/jhoicas/invoice-editor/internal/interfaces/http"
	"github.com/jhoicas/invoice-editor/pkg/config"
	"github.com/jhoicas/invoice-editor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: las sesiones de edición no requieren token")
	}

	tplOpts := invoice.TemplateOptions{Currency: cfg.Invoice.Currency, DueDays: cfg.Invoice.DueDays}

	// Plantilla opcional desde archivo; las fechas vacías se completan al abrir cada sesión.
	var defaultTemplate *entity.Invoice
	if cfg.Invoice.TemplatePath != "" {
		base := invoice.DefaultInvoice(time.Now(), tplOpts)
		base.InvoiceDate, base.InvoiceDueDate = "", ""
		tpl, err := yamlfile.LoadTemplate(cfg.Invoice.TemplatePath, base)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Invoice.TemplatePath).Msg("cargar plantilla de factura")
		}
		defaultTemplate = &tpl
		log.Info().Str("path", cfg.Invoice.TemplatePath).Msg("plantilla de factura cargada")
	}

	sessionRepo := memory.NewSessionRepository()
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	xlsxExporter := infraxlsx.NewExcelExporter()

	sessionUC := editor.NewSessionUseCase(
		sessionRepo, pdfGenerator, xlsxExporter,
		editor.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		editor.SessionConfig{
			Template:        tplOpts,
			DefaultTemplate: defaultTemplate,
			Tax:             entity.Adjustment{Enabled: cfg.Invoice.TaxPercent > 0, Percent: cfg.Invoice.TaxPercent},
			Discount:        entity.Adjustment{Enabled: cfg.Invoice.DiscountPercent > 0, Percent: cfg.Invoice.DiscountPercent},
			StrictFields:    cfg.Invoice.StrictFields,
			TTL:             time.Duration(cfg.Session.TTLMinutes) * time.Minute,
		},
		log,
	)
	renderUC := editor.NewRenderUseCase(pdfGenerator, xlsxExporter)
	exportLimiter := httpRouter.NewExportRateLimiter(cfg.Export.RatePerSecond, cfg.Export.Burst)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go sessionUC.RunReaper(bgCtx, time.Minute)
	go exportLimiter.Run(bgCtx, 5*time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    editor.MaxLogoBytes + 1024*1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.App.SwaggerFile,
		Path:     "docs",
		Title:    "Invoice Editor API",
	}))
	app.Get("/api/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SessionUC:   sessionUC,
		RenderUC:    renderUC,
		ExportLimit: exportLimiter,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Int("sesiones_abiertas", sessionRepo.Count()).Msg("aplicación detenida")
}
