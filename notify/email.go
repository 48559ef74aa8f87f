// Package notify formats and delivers the monitor's outbound mail.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"housing-monitor/models"
)

// listingCard is the per-listing view for the main card layout.
type listingCard struct {
	Name        string
	RentDisplay string
	RentRaw     string
	Bedrooms    string
	Rooms       string
	Dates       string
	Contact     string
	Description string
}

// excludedRow is the per-listing view for the did-not-match table.
type excludedRow struct {
	Name     string
	RentRaw  string
	Unit     string
	Contact  string
	Reason   string
}

type emailView struct {
	Cards       []listingCard
	Excluded    []excludedRow
	MatchCount  int
	Plural      string
	MaxRent     string
	ViewURL     string
	GeneratedAt string
}

var emailTmpl = template.Must(template.New("listings").Parse(`
<html><body style="font-family: -apple-system, Arial, sans-serif; max-width:600px; margin:0 auto; padding:16px;">
	<h2 style="color:#1a1a1a;">New Housing Listings</h2>
	<p style="color:#666;">{{.MatchCount}} new listing{{.Plural}} under ${{.MaxRent}}/mo &mdash; entire units only</p>
{{range .Cards}}	<div style="border:1px solid #ddd; border-radius:8px; padding:16px; margin-bottom:12px; background:#fafafa;">
		<div style="font-size:18px; font-weight:bold; color:#1a1a1a;">{{.Name}}</div>
		<div style="color:#2d7d2d; font-size:16px; font-weight:bold; margin:4px 0;">
			{{.RentDisplay}} <span style="color:#888; font-size:13px; font-weight:normal;">({{.RentRaw}})</span>
		</div>
		<div style="margin:4px 0; color:#555;"><strong>{{.Bedrooms}}</strong> &mdash; {{.Rooms}}</div>
		<div style="margin:4px 0; color:#555;">{{.Dates}}</div>
		<div style="margin:4px 0;"><strong>Contact:</strong> {{.Contact}}</div>
		<div style="margin:8px 0; color:#333; font-size:14px; line-height:1.4;">{{.Description}}</div>
	</div>
{{end}}{{if .Excluded}}	<h3 style="color:#888; margin-top:28px;">Did Not Match Filters ({{len .Excluded}})</h3>
	<p style="color:#999; font-size:13px;">Excluded by rent or unit-type filters. Review in case something was misparsed.</p>
	<table style="width:100%; border-collapse:collapse; font-size:13px; color:#555;">
		<tr style="background:#f0f0f0; text-align:left;">
			<th style="padding:6px 8px;">Name</th>
			<th style="padding:6px 8px;">Rent</th>
			<th style="padding:6px 8px;">Unit</th>
			<th style="padding:6px 8px;">Contact</th>
			<th style="padding:6px 8px;">Reason</th>
		</tr>
{{range .Excluded}}		<tr>
			<td style="padding:6px 8px; border-bottom:1px solid #eee;">{{.Name}}</td>
			<td style="padding:6px 8px; border-bottom:1px solid #eee;">{{.RentRaw}}</td>
			<td style="padding:6px 8px; border-bottom:1px solid #eee;">{{.Unit}}</td>
			<td style="padding:6px 8px; border-bottom:1px solid #eee;">{{.Contact}}</td>
			<td style="padding:6px 8px; border-bottom:1px solid #eee; color:#c44;">{{.Reason}}</td>
		</tr>
{{end}}	</table>
{{end}}	<hr style="border:none; border-top:1px solid #eee; margin:20px 0;">
	<p style="color:#999; font-size:12px;">
		<a href="{{.ViewURL}}">View full spreadsheet</a> &bull;
		Generated {{.GeneratedAt}}
	</p>
</body></html>`))

// BuildListingsEmail renders the notification body: one card per matching
// listing, plus an audit table of excluded listings when present.
func BuildListingsEmail(matching, excluded []*models.Classified, maxRent float64, sheetURL string) (string, error) {
	view := emailView{
		MatchCount:  len(matching),
		Plural:      plural(len(matching)),
		MaxRent:     dollars(maxRent),
		ViewURL:     viewURL(sheetURL),
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
	}

	for _, l := range matching {
		view.Cards = append(view.Cards, listingCard{
			Name:        orDefault(l.Row.Get(models.FieldName), "Unknown"),
			RentDisplay: rentDisplay(l.Rent),
			RentRaw:     orDefault(l.Row.Get(models.FieldRent), "N/A"),
			Bedrooms:    l.Row.Get(models.FieldBedrooms),
			Rooms:       l.Row.Get(models.FieldRooms),
			Dates:       l.Row.Get(models.FieldDates),
			Contact:     l.Row.Get(models.FieldContact),
			Description: l.Row.Get(models.FieldDesc),
		})
	}

	for _, l := range excluded {
		view.Excluded = append(view.Excluded, excludedRow{
			Name:    orDefault(l.Row.Get(models.FieldName), "Unknown"),
			RentRaw: orDefault(l.Row.Get(models.FieldRent), "N/A"),
			Unit:    l.Row.Get(models.FieldBedrooms) + " / " + l.Row.Get(models.FieldRooms),
			Contact: l.Row.Get(models.FieldContact),
			Reason:  l.ExcludeReason,
		})
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("notify: render email: %w", err)
	}
	return buf.String(), nil
}

// ListingsSubject builds the notification subject line.
func ListingsSubject(newCount int) string {
	return fmt.Sprintf("🏠 %d New Housing Listing%s", newCount, plural(newCount))
}

// NothingNewSubject is the subject used when SEND_WHEN_NO_NEW forces a mail.
const NothingNewSubject = "🏠 Housing Monitor — No New Listings"

// BuildAlertEmail renders the plain-text health-check alert body.
func BuildAlertEmail(failures []string) string {
	var b strings.Builder
	b.WriteString("Housing monitor health check failed:\n\n")
	for i, f := range failures {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, f)
	}
	fmt.Fprintf(&b, "\nTimestamp: %s", time.Now().Format("2006-01-02 15:04"))
	return b.String()
}

// AlertSubject builds the health-check alert subject line.
func AlertSubject(failureCount int) string {
	return fmt.Sprintf("⚠️ Housing Monitor Health Check — %d issue(s)", failureCount)
}

func rentDisplay(rent *float64) string {
	if rent == nil {
		return "???"
	}
	return "$" + dollars(*rent) + "/mo"
}

func dollars(amount float64) string {
	return humanize.Comma(int64(math.Round(amount)))
}

// viewURL strips export params so the link opens the human-readable sheet.
func viewURL(sheetURL string) string {
	if idx := strings.Index(sheetURL, "/export"); idx >= 0 {
		return sheetURL[:idx]
	}
	return sheetURL
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
