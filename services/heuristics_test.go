package services

import (
	"testing"

	"housing-monitor/models"
	"housing-monitor/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func fptr(f float64) *float64 { return &f }

func TestParseRent(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{"$2,200", fptr(2200)},
		{"2.2k", fptr(2200)},
		{"$$1700", fptr(1700)},
		{"450/week", fptr(450 * 4.33)},
		{"450 per week", fptr(450 * 4.33)},
		{"2.2k/week", fptr(2200 * 4.33)},
		{"$1,750.00", fptr(1750)},
		{"  $2400 ", fptr(2400)},
		{"", nil},
		{"call for price", nil},
		// First numeric token wins; trailing digits are ignored.
		{"$1800 (unit 204)", fptr(1800)},
	}

	for _, tt := range tests {
		got := ParseRent(tt.raw)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ParseRent(%q) = %v; want nil", tt.raw, *got)
		case tt.want != nil && got == nil:
			t.Errorf("ParseRent(%q) = nil; want %v", tt.raw, *tt.want)
		case tt.want != nil && got != nil && *got != *tt.want:
			t.Errorf("ParseRent(%q) = %v; want %v", tt.raw, *got, *tt.want)
		}
	}
}

func TestIsTaken(t *testing.T) {
	tests := []struct {
		status string
		dates  string
		want   bool
	}{
		{"", "Sublet Pending", true},
		{"Available", "", false},
		{"TAKEN", "", true},
		{"", "pending confirmation", true},
		{"", "June through August", false},
		{"", "", false},
	}

	for _, tt := range tests {
		row := models.Row{
			models.FieldStatus: tt.status,
			models.FieldDates:  tt.dates,
		}
		if got := IsTaken(row); got != tt.want {
			t.Errorf("IsTaken(status=%q, dates=%q) = %v; want %v", tt.status, tt.dates, got, tt.want)
		}
	}
}

func TestIsEntireUnit(t *testing.T) {
	tests := []struct {
		rooms    string
		bedrooms string
		want     bool
	}{
		{"Entire unit", "4 bedroom", true},
		{"", "Studio", true},
		{"2 bedroom", "2 bedroom", true},
		{"1 bedroom", "3 bedroom", false},
		{"1 of 3 bedrooms", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		row := models.Row{
			models.FieldRooms:    tt.rooms,
			models.FieldBedrooms: tt.bedrooms,
		}
		if got := IsEntireUnit(row); got != tt.want {
			t.Errorf("IsEntireUnit(rooms=%q, bedrooms=%q) = %v; want %v", tt.rooms, tt.bedrooms, got, tt.want)
		}
	}
}
