package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"housing-monitor/config"
	"housing-monitor/models"
	"housing-monitor/storage"
)

type fakeFetcher struct {
	sheet *models.Sheet
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*models.Sheet, error) {
	return f.sheet, f.err
}

type fakeMailer struct {
	subjects []string
	bodies   []string
	err      error
}

func (m *fakeMailer) SendHTML(subject, body string, recipients []string) error {
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return m.err
}

func (m *fakeMailer) SendText(subject, body string, recipients []string) error {
	return m.SendHTML(subject, body, recipients)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SheetURL:       "https://example.com/sheet/export?format=csv",
		MaxRent:        3000,
		MinHealthyRows: 10,
		Recipients:     []string{"me@example.com"},
	}
}

func testStore(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "seen.json"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func janeSheet() *models.Sheet {
	return &models.Sheet{
		Header: []string{"Name", "Bedrooms in Apt", "Rooms available", "Rent", "Dates Available", "Contact", ""},
		Rows: [][]string{
			{"Jane", "2 bedroom", "2 bedroom", "$2000", "Now", "jane@x.com", ""},
		},
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	store := testStore(t)
	mailer := &fakeMailer{}

	m := NewMonitor(cfg, newTestLogger(), &fakeFetcher{sheet: janeSheet()}, store, mailer, nil)
	report, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Matching != 1 || report.NewMatching != 1 {
		t.Errorf("report = %d matching / %d new, want 1/1", report.Matching, report.NewMatching)
	}
	if len(mailer.subjects) != 1 || mailer.subjects[0] != "🏠 1 New Housing Listing" {
		t.Errorf("subjects = %v, want one singular new-listing subject", mailer.subjects)
	}
	if !strings.Contains(mailer.bodies[0], "Jane") {
		t.Error("notification body missing the listing name")
	}

	saved, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if saved.Size() != 1 {
		t.Errorf("persisted set size = %d, want 1", saved.Size())
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	store := testStore(t)
	mailer := &fakeMailer{}

	m := NewMonitor(cfg, newTestLogger(), &fakeFetcher{sheet: janeSheet()}, store, mailer, nil)
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	report, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.NewMatching != 0 || report.NewExcluded != 0 {
		t.Errorf("second run found %d/%d new, want 0/0", report.NewMatching, report.NewExcluded)
	}
	if len(mailer.subjects) != 1 {
		t.Errorf("second unchanged run sent mail (%d total), want exactly 1", len(mailer.subjects))
	}

	saved, _ := store.Load()
	if saved.Size() != 1 {
		t.Errorf("persisted set grew to %d on an unchanged source", saved.Size())
	}
}

func TestRunTransientGuard(t *testing.T) {
	cfg := testConfig(t)
	store := testStore(t)

	history := storage.NewSeenSet()
	for i := 0; i < 50; i++ {
		history.Add(fmt.Sprintf("fp%02d", i))
	}
	if err := store.Save(history); err != nil {
		t.Fatal(err)
	}

	empty := &models.Sheet{Header: []string{"Name", "Rent"}, Rows: nil}
	mailer := &fakeMailer{}
	m := NewMonitor(cfg, newTestLogger(), &fakeFetcher{sheet: empty}, store, mailer, nil)

	report, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("guard skip should not be an error, got %v", err)
	}
	if !report.Skipped {
		t.Error("run should have been skipped")
	}
	if len(mailer.subjects) != 0 {
		t.Error("skipped run must not notify")
	}

	saved, _ := store.Load()
	if saved.Size() != 50 {
		t.Errorf("skipped run mutated state: size = %d, want 50", saved.Size())
	}
}

func TestRunEmptySheetWithoutHistoryProceeds(t *testing.T) {
	cfg := testConfig(t)
	store := testStore(t)

	empty := &models.Sheet{Header: []string{"Name", "Rent"}, Rows: nil}
	m := NewMonitor(cfg, newTestLogger(), &fakeFetcher{sheet: empty}, store, &fakeMailer{}, nil)

	report, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Skipped {
		t.Error("bootstrap run with empty sheet should complete, not skip")
	}
}

func TestRunDeliveryFailureStillPersists(t *testing.T) {
	cfg := testConfig(t)
	store := testStore(t)
	mailer := &fakeMailer{err: fmt.Errorf("smtp auth failed")}

	m := NewMonitor(cfg, newTestLogger(), &fakeFetcher{sheet: janeSheet()}, store, mailer, nil)
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("delivery failure must not fail the run, got %v", err)
	}

	saved, _ := store.Load()
	if saved.Size() != 1 {
		t.Errorf("state not persisted after delivery failure: size = %d, want 1", saved.Size())
	}
}

func TestRunSendWhenNoNew(t *testing.T) {
	cfg := testConfig(t)
	cfg.SendWhenNoNew = true
	store := testStore(t)
	mailer := &fakeMailer{}

	m := NewMonitor(cfg, newTestLogger(), &fakeFetcher{sheet: janeSheet()}, store, mailer, nil)
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(mailer.subjects) != 2 {
		t.Fatalf("got %d mails, want 2 (new-listing mail then no-new mail)", len(mailer.subjects))
	}
	if !strings.Contains(mailer.subjects[1], "No New Listings") {
		t.Errorf("second subject = %q, want the no-new variant", mailer.subjects[1])
	}
	// The no-new variant carries the full current matching set.
	if !strings.Contains(mailer.bodies[1], "Jane") {
		t.Error("no-new mail should include the full matching list")
	}
}

func TestRunFetchErrorAborts(t *testing.T) {
	cfg := testConfig(t)
	store := testStore(t)
	mailer := &fakeMailer{}

	m := NewMonitor(cfg, newTestLogger(), &fakeFetcher{err: fmt.Errorf("network down")}, store, mailer, nil)
	if _, err := m.Run(context.Background()); err == nil {
		t.Fatal("fetch failure should abort the run")
	}
	if len(mailer.subjects) != 0 {
		t.Error("aborted run must not notify")
	}

	saved, _ := store.Load()
	if saved.Size() != 0 {
		t.Error("aborted run must not persist state")
	}
}
