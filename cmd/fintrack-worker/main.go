package main

import (
	"context"
	"errors"
	"os"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/events"
	"fintrack/internal/sheets"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.SpreadsheetID == "" {
		logger.Error("Sheets export disabled - GOOGLE_SPREADSHEET_ID is required for the worker")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := backend.New(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer repo.Close()

	exporter, err := sheets.New(context.Background(), cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets exporter initialized",
		"spreadsheet_id", cfg.SpreadsheetID, "sheet", cfg.SheetName)

	consumer, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	w := worker.NewExportWorker(repo, exporter, consumer, cfg.ExportInterval)

	// Export once at startup so the sheet reflects mutations made while
	// the worker was down.
	if err := w.ExportOnce(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
	}

	logger.Info("Starting fintrack worker", "export_interval", cfg.ExportInterval.String())
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
