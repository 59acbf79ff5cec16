package service

import (
	"fmt"
	"strings"

	"survey-service/internal/survey/model"
)

// maxSuggestDistance is the largest edit distance still reported as a likely typo.
const maxSuggestDistance = 2

// damerauLevenshtein is the optimal-string-alignment distance over runes.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := range dp {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				dp[i][j] = min(dp[i][j], dp[i-2][j-2]+1)
			}
		}
	}
	return dp[al][bl]
}

// suggestColumn finds the unmapped header cell closest to one of f's labels,
// for error messages only; it never feeds the mapping itself.
func suggestColumn(header model.Row, cols model.HeaderMap, f model.Field) (string, bool) {
	used := make(map[int]bool, len(cols))
	for _, i := range cols {
		used[i] = true
	}

	best, bestDist := "", maxSuggestDistance+1
	for i, cell := range header {
		c := CompactHeader(cell)
		if used[i] || c == "" {
			continue
		}
		for _, l := range fuzzyLabels[f] {
			if d := damerauLevenshtein(c, CompactHeader(l)); d < bestDist {
				best, bestDist = strings.TrimSpace(cell), d
			}
		}
	}
	return best, best != ""
}

func describeMissing(header model.Row, cols model.HeaderMap, missing []model.Field) string {
	parts := make([]string, 0, len(missing))
	for _, f := range missing {
		if s, ok := suggestColumn(header, cols, f); ok {
			parts = append(parts, fmt.Sprintf("%s (did you mean %q?)", f, s))
			continue
		}
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}
