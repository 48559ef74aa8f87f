package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"housing-monitor/models"
	"housing-monitor/utils"
)

// Classifier partitions canonical rows into matching and excluded listings.
type Classifier struct {
	logger *utils.Logger
}

// NewClassifier creates a Classifier with the given logger.
func NewClassifier(logger *utils.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Classify screens out taken rows entirely, then partitions the survivors:
// a row matches when it is an entire unit with a parseable rent strictly
// under maxRent; anything else is excluded with the failed filters recorded.
// Both partitions come back sorted ascending by parsed rent — unparseable
// rents sort first in matching and last in excluded.
func (c *Classifier) Classify(rows []models.Row, maxRent float64) (matching, excluded []*models.Classified) {
	for _, row := range rows {
		if IsTaken(row) {
			continue
		}

		rent := ParseRent(row.Get(models.FieldRent))

		var reasons []string
		if !IsEntireUnit(row) {
			reasons = append(reasons, "not entire unit")
		}
		if rent == nil {
			reasons = append(reasons, "rent unparseable")
		} else if *rent >= maxRent {
			reasons = append(reasons, fmt.Sprintf("rent $%s", humanize.Comma(int64(math.Round(*rent)))))
		}

		listing := &models.Classified{Row: row, Rent: rent}
		if len(reasons) > 0 {
			listing.ExcludeReason = strings.Join(reasons, ", ")
			excluded = append(excluded, listing)
		} else {
			matching = append(matching, listing)
		}
	}

	SortByRent(matching, 0)
	SortByRent(excluded, math.Inf(1))

	c.logger.Info("[classify] Filtered to %d matching, %d excluded", len(matching), len(excluded))
	return matching, excluded
}

// SortByRent stably sorts listings ascending by parsed rent, substituting
// missing for rows whose rent could not be parsed.
func SortByRent(listings []*models.Classified, missing float64) {
	sort.SliceStable(listings, func(i, j int) bool {
		return rentOrMissing(listings[i], missing) < rentOrMissing(listings[j], missing)
	})
}

func rentOrMissing(l *models.Classified, missing float64) float64 {
	if l.Rent == nil {
		return missing
	}
	return *l.Rent
}
