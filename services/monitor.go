package services

import (
	"context"
	"math"

	"housing-monitor/config"
	"housing-monitor/models"
	"housing-monitor/notify"
	"housing-monitor/sheets"
	"housing-monitor/storage"
	"housing-monitor/utils"
)

// Monitor sequences one pipeline run: fetch → normalize → classify → diff →
// notify → persist.
type Monitor struct {
	cfg        *config.Config
	logger     *utils.Logger
	fetcher    sheets.Fetcher
	store      storage.SeenStore
	mailer     notify.Mailer
	snapshot   storage.RowSnapshotter
	normalizer *Normalizer
	classifier *Classifier
	reports    *ReportService
}

// NewMonitor wires a Monitor from its collaborators. snapshot may be nil.
func NewMonitor(cfg *config.Config, logger *utils.Logger, fetcher sheets.Fetcher,
	store storage.SeenStore, mailer notify.Mailer, snapshot storage.RowSnapshotter) *Monitor {
	return &Monitor{
		cfg:        cfg,
		logger:     logger,
		fetcher:    fetcher,
		store:      store,
		mailer:     mailer,
		snapshot:   snapshot,
		normalizer: NewNormalizer(logger),
		classifier: NewClassifier(logger),
		reports:    NewReportService(logger),
	}
}

// Run executes one complete run. A fetch or state-load failure aborts the
// run with no state change. Notification delivery failure does not: a missed
// email is recoverable, re-notifying every known listing forever is not, so
// the merged seen-set is persisted at the end of every completed run.
func (m *Monitor) Run(ctx context.Context) (*RunReport, error) {
	sheet, err := m.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	header, rows := m.normalizer.Normalize(sheet)

	if m.snapshot != nil {
		if err := m.snapshot.WriteRows(header, rows); err != nil {
			m.logger.Warn("[monitor] Snapshot write failed: %v", err)
		}
	}

	seen, err := m.store.Load()
	if err != nil {
		return nil, err
	}

	// Transient-failure guard: an established sheet does not legitimately
	// empty out, so zero rows against real history means the export glitched.
	if len(rows) == 0 && seen.Size() > m.cfg.MinHealthyRows {
		m.logger.Warn("[monitor] Sheet returned 0 rows but %d listings were seen before — likely a transient fetch failure, skipping this run",
			seen.Size())
		return &RunReport{Skipped: true, SkipReason: "0 rows against established history"}, nil
	}

	matching, excluded := m.classifier.Classify(rows, m.cfg.MaxRent)

	current := storage.NewSeenSet()
	for _, l := range matching {
		current.Add(storage.Fingerprint(l.Row))
	}
	for _, l := range excluded {
		current.Add(storage.Fingerprint(l.Row))
	}

	fresh := current.Diff(seen)
	newMatching := selectFresh(matching, fresh)
	newExcluded := selectFresh(excluded, fresh)
	SortByRent(newMatching, 0)
	SortByRent(newExcluded, math.Inf(1))

	m.logger.Info("[monitor] %d new matching, %d new excluded, %d total matching",
		len(newMatching), len(newExcluded), len(matching))

	m.notifyRun(newMatching, newExcluded, matching)

	merged := seen.Union(current)
	if err := m.store.Save(merged); err != nil {
		return nil, err
	}
	m.logger.Info("[monitor] State saved (%d identities)", merged.Size())

	return m.reports.Generate(len(rows), matching, excluded, newMatching, newExcluded), nil
}

// notifyRun decides whether and what to mail. Delivery errors are logged,
// never returned: see Run.
func (m *Monitor) notifyRun(newMatching, newExcluded, allMatching []*models.Classified) {
	switch {
	case len(newMatching) > 0 || len(newExcluded) > 0:
		body, err := notify.BuildListingsEmail(newMatching, newExcluded, m.cfg.MaxRent, m.cfg.SheetURL)
		if err != nil {
			m.logger.Error("[monitor] %v", err)
			return
		}
		if err := m.mailer.SendHTML(notify.ListingsSubject(len(newMatching)), body, m.cfg.Recipients); err != nil {
			m.logger.Error("[monitor] Notification failed: %v", err)
		}

	case m.cfg.SendWhenNoNew:
		m.logger.Info("[monitor] No new listings, but SEND_WHEN_NO_NEW is set")
		body, err := notify.BuildListingsEmail(allMatching, nil, m.cfg.MaxRent, m.cfg.SheetURL)
		if err != nil {
			m.logger.Error("[monitor] %v", err)
			return
		}
		if err := m.mailer.SendHTML(notify.NothingNewSubject, body, m.cfg.Recipients); err != nil {
			m.logger.Error("[monitor] Notification failed: %v", err)
		}

	default:
		m.logger.Info("[monitor] No new listings, skipping email")
	}
}

func selectFresh(listings []*models.Classified, fresh *storage.SeenSet) []*models.Classified {
	var out []*models.Classified
	for _, l := range listings {
		if fresh.Contains(storage.Fingerprint(l.Row)) {
			out = append(out, l)
		}
	}
	return out
}
