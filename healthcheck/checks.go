// Package healthcheck independently re-verifies the spreadsheet and the
// monitor's persisted state, so a silent monitor failure still produces an
// alert.
package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"housing-monitor/config"
	"housing-monitor/models"
	"housing-monitor/sheets"
	"housing-monitor/utils"
)

// expectedColumns are the header fields the pipeline's heuristics read. A
// missing column means the sheet tab shifted or was restructured.
var expectedColumns = []string{
	models.FieldCity,
	models.FieldBedrooms,
	models.FieldRooms,
	models.FieldRent,
	models.FieldContact,
}

// knownFirstHeaders are the first-column header spellings seen in the wild.
// The monitor repairs the header either way; anything else is flagged so a
// human knows the sheet itself is corrupted.
var knownFirstHeaders = map[string]bool{"name": true, "nie": true, "ame": true}

// Checker runs the liveness probes.
type Checker struct {
	cfg     *config.Config
	logger  *utils.Logger
	fetcher sheets.Fetcher
}

// NewChecker creates a Checker using the given fetcher for the remote probes.
func NewChecker(cfg *config.Config, logger *utils.Logger, fetcher sheets.Fetcher) *Checker {
	return &Checker{cfg: cfg, logger: logger, fetcher: fetcher}
}

// Run executes every probe and returns the accumulated failure descriptions.
// An empty result means healthy. The remote (sheet) and local (state, log)
// probe groups run concurrently; each group is sequential because its checks
// share data.
func (c *Checker) Run(ctx context.Context) []string {
	if c.cfg.SheetURL == "" {
		return []string{"SHEET_URL not set in .env"}
	}

	var (
		mu     sync.Mutex
		remote []string
		local  []string
	)

	pool := utils.NewWorkerPool(2, 0)
	pool.Submit(func() {
		r := c.checkSheet(ctx)
		mu.Lock()
		remote = r
		mu.Unlock()
	})
	pool.Submit(func() {
		l := c.checkLocalState()
		mu.Lock()
		local = l
		mu.Unlock()
	})
	pool.Wait()

	return append(remote, local...)
}

// checkSheet verifies the sheet is reachable, tabular, plausibly sized, and
// still carries the columns the pipeline depends on.
func (c *Checker) checkSheet(ctx context.Context) []string {
	var failures []string

	sheet, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return []string{fmt.Sprintf("Sheet fetch failed: %v", err)}
	}

	header := make([]string, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = strings.TrimSpace(h)
	}

	rowCount := 0
	for _, row := range sheet.Rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				rowCount++
				break
			}
		}
	}
	if rowCount < c.cfg.MinHealthyRows {
		failures = append(failures,
			fmt.Sprintf("Only %d rows returned — sheet tab may have shifted", rowCount))
	}

	headerSet := make(map[string]bool, len(header))
	for _, h := range header {
		headerSet[h] = true
	}
	var missing []string
	for _, col := range expectedColumns {
		if !headerSet[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		failures = append(failures,
			fmt.Sprintf("Missing expected columns: %s", strings.Join(missing, ", ")))
	}

	if len(header) > 0 && !knownFirstHeaders[strings.ToLower(header[0])] {
		failures = append(failures,
			fmt.Sprintf("First column header is %q instead of %q (monitor handles this, but the sheet header is corrupted)",
				header[0], models.FieldName))
	}

	return failures
}

// checkLocalState verifies the persisted seen-set parses as a list and the
// monitor has logged recently enough to have plausibly run.
func (c *Checker) checkLocalState() []string {
	var failures []string

	data, err := os.ReadFile(c.cfg.StatePath)
	if os.IsNotExist(err) {
		failures = append(failures, fmt.Sprintf("%s is missing", c.cfg.StatePath))
	} else if err != nil {
		failures = append(failures, fmt.Sprintf("%s is unreadable: %v", c.cfg.StatePath, err))
	} else {
		var fingerprints []string
		if err := json.Unmarshal(data, &fingerprints); err != nil {
			failures = append(failures, fmt.Sprintf("%s is not a JSON list: %v", c.cfg.StatePath, err))
		}
	}

	if c.cfg.LogPath != "" {
		info, err := os.Stat(c.cfg.LogPath)
		maxAge := time.Duration(c.cfg.LogMaxAgeHours) * time.Hour
		switch {
		case os.IsNotExist(err):
			failures = append(failures, fmt.Sprintf("%s not found — has the monitor ever run?", c.cfg.LogPath))
		case err != nil:
			failures = append(failures, fmt.Sprintf("%s is unreadable: %v", c.cfg.LogPath, err))
		case time.Since(info.ModTime()) > maxAge:
			failures = append(failures,
				fmt.Sprintf("%s last written %s ago — monitor may have stopped",
					c.cfg.LogPath, time.Since(info.ModTime()).Round(time.Minute)))
		}
	}

	return failures
}
