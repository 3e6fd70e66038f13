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

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/domain/repository"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/apiclient"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/taller-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/render"
	httpRouter "github.com/jhoicas/taller-dashboard/internal/interfaces/http"
	"github.com/jhoicas/taller-dashboard/pkg/config"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando servicio de exportación")

	ctx := context.Background()

	// Bitácora: PostgreSQL si hay base configurada, si no en memoria.
	var exportLog repository.ExportLogRepository = memory.NewExportLog(0)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		exportLog = postgres.NewExportLogRepository(pool)
		log.Info().Msg("bitácora de exportaciones en PostgreSQL")
	}

	client, err := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithTokenSource(apiclient.StaticToken(cfg.API.Token)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente de la API REST")
	}

	printer := infrapdf.NewPrinter(infrapdf.Options{
		Engine:       cfg.Export.PDFEngine,
		ChromiumPath: cfg.Export.ChromiumPath,
		PageSize:     cfg.Export.PageSize,
		MarginMM:     cfg.Export.MarginMM,
		Settle:       cfg.Export.Settle,
		Timeout:      cfg.Export.Timeout,
	}, log)

	company := entity.CompanyProfile{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Export.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Swagger.File); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.File,
			Path:     "docs",
			Title:    "Taller Dashboard Export API",
		}))
	} else {
		log.Warn().Str("file", cfg.Swagger.File).Msg("documento OpenAPI no encontrado; /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Export: httpRouter.NewExportHandler(httpRouter.ExportHandlerDeps{
			Invoices:  client,
			Customers: client,
			Renderer:  render.NewHTMLRenderer(),
			Printer:   printer,
			Company:   company,
			ExportLog: exportLog,
			Log:       log,
		}),
		Reports:   httpRouter.NewReportHandler(client, exportLog, log),
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		Service:   cfg.App.Name,
		Engine:    printer.Engine(),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("servicio detenido")
}
