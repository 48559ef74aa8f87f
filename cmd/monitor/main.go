package main

import (
	"context"
	"os"
	"time"

	"housing-monitor/config"
	"housing-monitor/notify"
	"housing-monitor/services"
	"housing-monitor/sheets"
	"housing-monitor/storage"
	"housing-monitor/utils"
)

func main() {
	cfg := config.Load()

	logger, err := utils.NewFileLogger(cfg.LogPath)
	if err != nil {
		utils.NewLogger().Error("Failed to open log file: %v", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("=== Housing Monitor starting ===")
	logger.Info("Config — max rent: $%.0f | backend: %s | fetch mode: %s | send when no new: %v",
		cfg.MaxRent, cfg.StateBackend, cfg.FetchMode, cfg.SendWhenNoNew)

	if cfg.SheetURL == "" {
		logger.Error("Missing SHEET_URL in .env")
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to open state store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	var snapshot storage.RowSnapshotter
	if cfg.SnapshotPath != "" {
		sw, err := storage.NewSnapshotWriter(cfg.SnapshotPath)
		if err != nil {
			logger.Error("Failed to create snapshot writer: %v", err)
			os.Exit(1)
		}
		defer sw.Close()
		snapshot = sw
	}

	fetcher := openFetcher(cfg, logger)
	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, logger)

	monitor := services.NewMonitor(cfg, logger, fetcher, store, mailer, snapshot)

	report, err := monitor.Run(context.Background())
	if err != nil {
		logger.Error("Run failed: %v", err)
		os.Exit(1)
	}

	services.NewReportService(logger).Print(report)
}

func openStore(cfg *config.Config) (storage.SeenStore, error) {
	if cfg.StateBackend == "postgres" {
		return storage.NewPostgresStore(cfg.DSN())
	}
	return storage.NewFileStore(cfg.StatePath)
}

func openFetcher(cfg *config.Config, logger *utils.Logger) sheets.Fetcher {
	timeout := time.Duration(cfg.FetchTimeout) * time.Second
	if cfg.FetchMode == "browser" {
		url := cfg.SheetHTMLURL
		if url == "" {
			url = cfg.SheetURL
		}
		return sheets.NewBrowserFetcher(url, cfg.ChromeBin, timeout, cfg.MaxRetries, logger)
	}
	return sheets.NewHTTPFetcher(cfg.SheetURL, timeout, cfg.MaxRetries, logger)
}
