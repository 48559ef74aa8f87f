package services

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"housing-monitor/models"
	"housing-monitor/utils"
)

// RunReport summarizes one pipeline run for the log and terminal.
type RunReport struct {
	TotalRows   int
	Matching    int
	Excluded    int
	NewMatching int
	NewExcluded int
	MinRent     float64
	MedianRent  float64
	MaxRent     float64
	Cheapest    *models.Classified
	Skipped     bool
	SkipReason  string
}

// ReportService computes and prints per-run summaries.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate builds a RunReport from the run's partitions. Rent stats cover
// matching listings only; unparseable rents never reach matching.
func (s *ReportService) Generate(totalRows int, matching, excluded, newMatching, newExcluded []*models.Classified) *RunReport {
	report := &RunReport{
		TotalRows:   totalRows,
		Matching:    len(matching),
		Excluded:    len(excluded),
		NewMatching: len(newMatching),
		NewExcluded: len(newExcluded),
	}

	var rents []float64
	for _, l := range matching {
		if l.Rent == nil {
			continue
		}
		rents = append(rents, *l.Rent)
		if report.Cheapest == nil || *l.Rent < *report.Cheapest.Rent {
			report.Cheapest = l
		}
	}

	if len(rents) > 0 {
		sort.Float64s(rents)
		report.MinRent = rents[0]
		report.MaxRent = rents[len(rents)-1]
		report.MedianRent = rents[len(rents)/2]
		if len(rents)%2 == 0 {
			report.MedianRent = (rents[len(rents)/2-1] + rents[len(rents)/2]) / 2
		}
	}

	return report
}

// Print renders the report to the terminal.
func (s *ReportService) Print(r *RunReport) {
	thin := "──────────────────────────────────────────"

	fmt.Printf("\n\033[1;35m  🏠 HOUSING MONITOR RUN SUMMARY\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.Skipped {
		fmt.Printf("  Run skipped : %s\n\n", r.SkipReason)
		return
	}
	fmt.Printf("  Rows fetched    : \033[1m%d\033[0m\n", r.TotalRows)
	fmt.Printf("  Matching        : \033[1m%d\033[0m (%d new)\n", r.Matching, r.NewMatching)
	fmt.Printf("  Excluded        : \033[1m%d\033[0m (%d new)\n", r.Excluded, r.NewExcluded)

	if r.Matching > 0 && r.MaxRent > 0 {
		fmt.Printf("  Rent (min/med/max) : \033[1;32m$%s / $%s / $%s\033[0m\n",
			humanize.Commaf(r.MinRent), humanize.Commaf(r.MedianRent), humanize.Commaf(r.MaxRent))
	}
	if r.Cheapest != nil {
		fmt.Printf("  Cheapest match  : %s ($%s/mo)\n",
			r.Cheapest.Row.Get(models.FieldName), humanize.Commaf(*r.Cheapest.Rent))
	}
	fmt.Println()
}
