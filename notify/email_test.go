package notify

import (
	"strings"
	"testing"

	"housing-monitor/models"
)

func fptr(f float64) *float64 { return &f }

func sampleMatching() []*models.Classified {
	return []*models.Classified{{
		Row: models.Row{
			models.FieldName:     "Jane",
			models.FieldRent:     "$2000",
			models.FieldBedrooms: "2 bedroom",
			models.FieldRooms:    "2 bedroom",
			models.FieldDates:    "June-August",
			models.FieldContact:  "jane@x.com",
			models.FieldDesc:     "Sunny & spacious",
		},
		Rent: fptr(2000),
	}}
}

func TestBuildListingsEmail(t *testing.T) {
	excluded := []*models.Classified{{
		Row: models.Row{
			models.FieldName: "Bob",
			models.FieldRent: "$3500",
		},
		Rent:          fptr(3500),
		ExcludeReason: "rent $3,500",
	}}

	body, err := BuildListingsEmail(sampleMatching(), excluded,
		3000, "https://docs.example.com/sheet/d/abc/export?format=csv")
	if err != nil {
		t.Fatalf("BuildListingsEmail: %v", err)
	}

	for _, want := range []string{
		"Jane",
		"$2,000/mo",
		"1 new listing under $3,000/mo",
		"Did Not Match Filters (1)",
		"rent $3,500",
		`href="https://docs.example.com/sheet/d/abc"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "/export?format=csv\"") {
		t.Error("view link should strip export params")
	}
}

func TestBuildListingsEmailEscapesHTML(t *testing.T) {
	matching := sampleMatching()
	matching[0].Row[models.FieldDesc] = `<script>alert("x")</script>`

	body, err := BuildListingsEmail(matching, nil, 3000, "https://example.com/sheet")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("sheet-supplied text must be HTML-escaped")
	}
}

func TestBuildListingsEmailUnparseableRent(t *testing.T) {
	matching := sampleMatching()
	matching[0].Rent = nil

	body, err := BuildListingsEmail(matching, nil, 3000, "https://example.com/sheet")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body, "???") {
		t.Error("missing rent should render as ???")
	}
}

func TestListingsSubjectPlurals(t *testing.T) {
	if got := ListingsSubject(1); got != "🏠 1 New Housing Listing" {
		t.Errorf("singular subject = %q", got)
	}
	if got := ListingsSubject(3); got != "🏠 3 New Housing Listings" {
		t.Errorf("plural subject = %q", got)
	}
	if got := ListingsSubject(0); got != "🏠 0 New Housing Listings" {
		t.Errorf("zero subject = %q", got)
	}
}

func TestBuildAlertEmail(t *testing.T) {
	body := BuildAlertEmail([]string{"sheet unreachable", "state file missing"})
	if !strings.Contains(body, "1. sheet unreachable") || !strings.Contains(body, "2. state file missing") {
		t.Errorf("alert body missing numbered failures:\n%s", body)
	}
}
