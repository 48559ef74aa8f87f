package sheets

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"housing-monitor/models"
	"housing-monitor/utils"
)

// BrowserFetcher renders the spreadsheet's published HTML view in headless
// Chrome and extracts the table cells in-page. It exists because the CSV
// export endpoint occasionally serves an interstitial or an auth redirect
// that a plain HTTP client cannot follow.
type BrowserFetcher struct {
	url       string
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
	retry     *utils.RetryConfig
}

// NewBrowserFetcher creates a BrowserFetcher for the given published-HTML URL.
func NewBrowserFetcher(url, chromeBin string, timeout time.Duration, maxRetries int, logger *utils.Logger) *BrowserFetcher {
	return &BrowserFetcher{
		url:       url,
		chromeBin: chromeBin,
		timeout:   timeout,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch renders the sheet and returns its table as header + data rows.
func (f *BrowserFetcher) Fetch(ctx context.Context) (*models.Sheet, error) {
	chromeBin := f.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	f.logger.Info("[sheets] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()
	allocCtx = silentCtx

	var table [][]string
	err := f.retry.DoCtx(ctx, "render-sheet", func() error {
		runCtx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		runCtx, cancelTimeout := context.WithTimeout(runCtx, f.timeout)
		defer cancelTimeout()

		return chromedp.Run(runCtx,
			chromedp.Navigate(f.url),
			chromedp.Sleep(3*time.Second),

			// Extract the spreadsheet grid. The published view wraps the
			// grid in a single <table>; the leading th in each tr is the
			// row-number gutter and is skipped by reading td cells only.
			chromedp.Evaluate(`
				(function() {
					var table = document.querySelector('table');
					if (!table) return [];

					var rows = [];
					var trs = table.querySelectorAll('tr');
					for (var i = 0; i < trs.length; i++) {
						var tds = trs[i].querySelectorAll('td');
						if (tds.length === 0) continue;

						var cells = [];
						for (var j = 0; j < tds.length; j++) {
							cells.push(tds[j].innerText);
						}
						rows.push(cells);
					}
					return rows;
				})()
			`, &table),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("sheets: browser fetch %q: %w", f.url, err)
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("sheets: browser fetch %q: no table found", f.url)
	}

	f.logger.Info("[sheets] Rendered %d rows from HTML view", len(table)-1)
	return &models.Sheet{Header: table[0], Rows: table[1:]}, nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
