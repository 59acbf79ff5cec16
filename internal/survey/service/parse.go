package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const voidSentinel = "void"

var (
	listSep = regexp.MustCompile(`(?i),|&|\band\b`)
	iccSep  = regexp.MustCompile(`[;,/]+`)
)

// ParseAreaValue parses "12,345.5" style areas. Anything unparseable or
// negative is 0; this silently hides bad data, callers that care must validate upstream.
func ParseAreaValue(s string) float64 {
	s = strings.TrimSpace(nbsp.Replace(s))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// SplitListValue splits "A, B & C and D" into its trimmed parts.
func SplitListValue(s string) []string {
	return splitTrim(s, listSep)
}

// SplitIccValue splits ICC/IP groups separated by ; , or /.
func SplitIccValue(s string) []string {
	return splitTrim(s, iccSep)
}

// IsVoid reports the explicit "void" marker.
func IsVoid(s string) bool {
	return NormalizeHeader(s) == voidSentinel
}

func iccValue(s string) []string {
	if IsVoid(s) {
		return []string{}
	}
	return SplitIccValue(s)
}

func remarksValue(s string) string {
	s = strings.TrimSpace(s)
	if IsVoid(s) {
		return ""
	}
	return s
}

func splitTrim(s string, sep *regexp.Regexp) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, p := range sep.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
