package service

import (
	"strings"

	"survey-service/internal/survey/model"
)

// maxHeaderScan bounds the search on sheets with long banners above the table.
const maxHeaderScan = 200

var headerKeywords = []string{
	"survey", "number", "location", "province", "municipality", "municipalities",
	"barangay", "area", "icc", "remarks", "region", "sheet",
}

// scoreHeaderRow counts keyword hits over the normalized non-empty cells.
// One cell may hit several keywords ("survey number" counts twice).
func scoreHeaderRow(row model.Row) (matches, nonEmpty int) {
	for _, cell := range row {
		n := NormalizeHeader(cell)
		if n == "" {
			continue
		}
		nonEmpty++
		for _, k := range headerKeywords {
			if strings.Contains(n, k) {
				matches++
			}
		}
	}
	return matches, nonEmpty
}

// FindHeaderRowIndex picks the most plausible header row among the first
// maxHeaderScan rows. Keyword hits win; when no row has any, the densest row
// is accepted if it has at least two filled cells.
func FindHeaderRowIndex(rows []model.Row) (int, bool) {
	limit := min(len(rows), maxHeaderScan)

	best, bestMatches, bestNonEmpty := -1, -1, -1
	for i := 0; i < limit; i++ {
		m, n := scoreHeaderRow(rows[i])
		if m > bestMatches || (m == bestMatches && n > bestNonEmpty) {
			best, bestMatches, bestNonEmpty = i, m, n
		}
	}
	if bestMatches > 0 {
		return best, true
	}

	fallback, fallbackNonEmpty := -1, -1
	for i := 0; i < limit; i++ {
		n := 0
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				n++
			}
		}
		if n > fallbackNonEmpty {
			fallback, fallbackNonEmpty = i, n
		}
	}
	if fallbackNonEmpty >= 2 {
		return fallback, true
	}
	return -1, false
}
