// Package sheets fetches the shared housing spreadsheet and returns its raw
// tabular payload. The primary fetcher pulls the CSV export over HTTP; a
// headless-browser fallback renders the published HTML view for the rare
// case where the export endpoint misbehaves.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"housing-monitor/models"
	"housing-monitor/utils"
)

// Fetcher retrieves the raw sheet payload for one run.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.Sheet, error)
}

// HTTPFetcher downloads the spreadsheet's CSV export.
type HTTPFetcher struct {
	url    string
	client *http.Client
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// NewHTTPFetcher creates an HTTPFetcher for the given CSV export URL.
func NewHTTPFetcher(url string, timeout time.Duration, maxRetries int, logger *utils.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch downloads and parses the CSV export. Any transport, status or CSV
// error is a hard failure for the run.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*models.Sheet, error) {
	f.logger.Info("[sheets] Fetching spreadsheet...")

	var sheet *models.Sheet
	err := f.retry.DoCtx(ctx, "fetch-sheet", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
		if err != nil {
			return fmt.Errorf("sheets: build request: %w", err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("sheets: fetch %q: %w", f.url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("sheets: fetch %q: unexpected status %d", f.url, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("sheets: read body: %w", err)
		}

		sheet, err = ParseCSV(string(body))
		return err
	})
	if err != nil {
		return nil, err
	}

	f.logger.Info("[sheets] Fetched %d rows", len(sheet.Rows))
	return sheet, nil
}

// ParseCSV parses raw CSV text into a Sheet. The UTF-8 BOM Google prepends
// to exports is stripped. Ragged rows are allowed; padding happens in the
// normalizer. A payload with no header row is an error the orchestrator
// must surface.
func ParseCSV(raw string) (*models.Sheet, error) {
	raw = strings.TrimPrefix(raw, "\uFEFF")

	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheets: parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheets: empty payload, no header row")
	}

	return &models.Sheet{Header: records[0], Rows: records[1:]}, nil
}
