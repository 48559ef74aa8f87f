package services

import (
	"regexp"
	"strconv"
	"strings"

	"housing-monitor/models"
)

var (
	// rentKRegexp captures amounts written with a thousands suffix, e.g. "2.2k"
	rentKRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*k\b`)
	// rentRegexp captures the first plain decimal amount, e.g. "1750.00"
	rentRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// bedroomCountRegexp captures a bedroom count, e.g. "2 bedroom"
	bedroomCountRegexp = regexp.MustCompile(`(\d+)\s*bedroom`)
)

// takenKeywords mark a listing as gone or spoken for. Substring match is
// intentional: hiding a taken-ish listing is the safe failure mode.
var takenKeywords = []string{"taken", "sublet pending", "pending"}

// weeksPerMonth converts weekly rents to a monthly figure.
const weeksPerMonth = 4.33

// ParseRent extracts a monthly dollar amount from free-form rent text like
// "$2,200", "2.2k", "$$1700" or "450/week". It is a tolerant heuristic, not
// a strict parser: the first numeric token wins and later digits (unit
// numbers, phone fragments) are ignored. Returns nil when no number is found.
func ParseRent(raw string) *float64 {
	if raw == "" {
		return nil
	}

	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	var amount float64
	if m := rentKRegexp.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		amount = n * 1000
	} else {
		m := rentRegexp.FindString(s)
		if m == "" {
			return nil
		}
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		amount = n
	}

	if strings.Contains(s, "/week") || strings.Contains(s, "per week") {
		amount *= weeksPerMonth
	}

	return &amount
}

// IsTaken reports whether the row is marked taken or pending, reading both
// the Status column and the Dates Available column (sheet editors note
// "Sublet Pending" in either).
func IsTaken(row models.Row) bool {
	status := strings.ToLower(row.Get(models.FieldStatus))
	dates := strings.ToLower(row.Get(models.FieldDates))
	combined := status + " " + dates

	for _, kw := range takenKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

// IsEntireUnit reports whether the listing offers a whole apartment rather
// than a room in a shared one: explicitly labeled "entire unit", a studio,
// or a bedroom count offered equal to the bedroom count of the apartment.
func IsEntireUnit(row models.Row) bool {
	rooms := strings.ToLower(strings.TrimSpace(row.Get(models.FieldRooms)))
	bedrooms := strings.ToLower(strings.TrimSpace(row.Get(models.FieldBedrooms)))

	if strings.Contains(rooms, "entire unit") {
		return true
	}
	if strings.Contains(bedrooms, "studio") {
		return true
	}

	roomsMatch := bedroomCountRegexp.FindStringSubmatch(rooms)
	bedroomsMatch := bedroomCountRegexp.FindStringSubmatch(bedrooms)
	if roomsMatch != nil && bedroomsMatch != nil {
		return roomsMatch[1] == bedroomsMatch[1]
	}

	return false
}
