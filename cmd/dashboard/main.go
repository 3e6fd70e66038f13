package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhoicas/taller-dashboard/internal/application/billing"
	"github.com/jhoicas/taller-dashboard/internal/application/export"
	"github.com/jhoicas/taller-dashboard/internal/application/reports"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/domain/repository"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/apiclient"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/taller-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/render"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/storage"
	"github.com/jhoicas/taller-dashboard/internal/interfaces/tui"
	"github.com/jhoicas/taller-dashboard/pkg/config"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	// La terminal la ocupa bubbletea; el log va a archivo.
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("abrir log %s: %w", cfg.Log.File, err)
	}
	defer logFile.Close()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Output: logFile})
	log.Info().Str("api", cfg.API.BaseURL).Str("downloads", cfg.Export.DownloadDir).Msg("iniciando dashboard")

	ctx := context.Background()
	var exportLog repository.ExportLogRepository = memory.NewExportLog(0)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		exportLog = postgres.NewExportLogRepository(pool)
	}

	client, err := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithTokenSource(apiclient.StaticToken(cfg.API.Token)),
	)
	if err != nil {
		return fmt.Errorf("cliente de la API REST: %w", err)
	}

	saver, err := storage.NewFileSaver(cfg.Export.DownloadDir)
	if err != nil {
		return fmt.Errorf("carpeta de descargas: %w", err)
	}

	printer := infrapdf.NewPrinter(infrapdf.Options{
		Engine:       cfg.Export.PDFEngine,
		ChromiumPath: cfg.Export.ChromiumPath,
		PageSize:     cfg.Export.PageSize,
		MarginMM:     cfg.Export.MarginMM,
		Settle:       cfg.Export.Settle,
		Timeout:      cfg.Export.Timeout,
	}, log)

	session := export.NewSession(export.SessionDeps{
		Customers: client,
		Renderer:  render.NewHTMLRenderer(),
		Printer:   printer,
		Company: entity.CompanyProfile{
			Name:    cfg.Company.Name,
			Address: cfg.Company.Address,
			Phone:   cfg.Company.Phone,
			Email:   cfg.Company.Email,
		},
		ExportLog: exportLog,
		Log:       log,
	})
	csv := export.NewCSVExporter(export.CSVDeps{
		Reports:   client,
		Saver:     saver,
		ExportLog: exportLog,
		Log:       log,
	})

	model := tui.New(tui.Deps{
		Invoices: billing.NewInvoiceBoard(client, cfg.Dashboard.PageSize, log),
		Reports:  reports.NewReportBoard(client, csv, log),
		Session:  session,
		Saver:    saver,
		PageSize: cfg.Dashboard.PageSize,
		Timeout:  cfg.API.Timeout + cfg.Export.Timeout,
		Log:      log,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("ejecutar interfaz: %w", err)
	}
	log.Info().Msg("dashboard cerrado")
	return nil
}
