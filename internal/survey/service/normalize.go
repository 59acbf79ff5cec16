package service

import (
	"regexp"
	"strings"
)

var (
	nbsp       = strings.NewReplacer("\u00A0", " ", "\u202F", " ")
	nonCompact = regexp.MustCompile(`[^a-z0-9]+`)
	nonField   = regexp.MustCompile(`[^A-Za-z0-9_]`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// NormalizeHeader folds a header or cell for comparison: NBSP -> space,
// whitespace runs collapsed, trimmed, lowercased.
func NormalizeHeader(s string) string {
	return strings.ToLower(collapseSpaces(nbsp.Replace(s)))
}

// CompactHeader keeps only [a-z0-9] of the normalized form.
func CompactHeader(s string) string {
	return nonCompact.ReplaceAllString(NormalizeHeader(s), "")
}

// SanitizeFieldName turns a source header label into a document field key.
func SanitizeFieldName(s string) string {
	s = spaceRun.ReplaceAllString(strings.TrimSpace(s), "_")
	return nonField.ReplaceAllString(s, "_")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
