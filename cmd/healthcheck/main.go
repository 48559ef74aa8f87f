package main

import (
	"context"
	"os"
	"time"

	"housing-monitor/config"
	"housing-monitor/healthcheck"
	"housing-monitor/notify"
	"housing-monitor/sheets"
	"housing-monitor/utils"
)

func main() {
	cfg := config.Load()

	// Stdout only: the monitor log's existence and mtime are probed below,
	// so the health check must never create or touch that file itself.
	logger := utils.NewLogger()

	logger.Info("Running health check...")

	timeout := time.Duration(cfg.FetchTimeout) * time.Second
	fetcher := sheets.NewHTTPFetcher(cfg.SheetURL, timeout, 1, logger)

	checker := healthcheck.NewChecker(cfg, logger, fetcher)
	failures := checker.Run(context.Background())

	if len(failures) == 0 {
		logger.Info("Health check passed — all OK")
		return
	}

	logger.Warn("Health check found %d issue(s):", len(failures))
	for _, f := range failures {
		logger.Warn("  - %s", f)
	}

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, logger)
	body := notify.BuildAlertEmail(failures)
	recipient := []string{cfg.HealthcheckRecipient}
	if err := mailer.SendText(notify.AlertSubject(len(failures)), body, recipient); err != nil {
		logger.Error("Failed to send health check alert: %v", err)
		os.Exit(1)
	}
}
