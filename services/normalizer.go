package services

import (
	"strings"

	"housing-monitor/models"
	"housing-monitor/utils"
)

// Normalizer turns a raw sheet payload into canonical rows.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize maps each data row onto the repaired header, returning both.
// All-blank rows (spreadsheet formatting artifacts) are dropped, short rows
// are right-padded to the header length, and every value is trimmed.
func (n *Normalizer) Normalize(sheet *models.Sheet) ([]string, []models.Row) {
	header := repairHeader(sheet.Header)

	rows := make([]models.Row, 0, len(sheet.Rows))
	for _, raw := range sheet.Rows {
		if isBlankRow(raw) {
			continue
		}

		row := make(models.Row, len(header))
		for i, field := range header {
			if i < len(raw) {
				row[field] = strings.TrimSpace(raw[i])
			} else {
				row[field] = ""
			}
		}
		rows = append(rows, row)
	}

	n.logger.Info("[normalize] %d raw rows → %d canonical rows (dropped %d blank)",
		len(sheet.Rows), len(rows), len(sheet.Rows)-len(rows))
	return header, rows
}

// repairHeader forces the header into its known-good shape. Sheet editors
// routinely corrupt the first column header, and the trailing Status column
// usually has no header at all; repair is unconditional so downstream code
// can rely on the field names.
func repairHeader(raw []string) []string {
	header := make([]string, len(raw))
	for i, h := range raw {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) > 0 {
		header[0] = models.FieldName
	}
	if len(header) > 0 && header[len(header)-1] == "" {
		header[len(header)-1] = models.FieldStatus
	}
	return header
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
