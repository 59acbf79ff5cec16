package service

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const UnknownRegion = "Unknown"

// RegionSheets is the canonical region order used for grouping.
var RegionSheets = []string{
	"CAR",
	"Region I", "Region II", "Region III", "Region IV-A", "Region IV-B",
	"Region V", "Region VI", "Region VII", "Region VIII", "Region IX",
	"Region X", "Region XI", "Region XII", "Region XIII",
}

var regionKeywords = []struct {
	region   string
	keywords []string
}{
	{"Region I", []string{"ILOCOS"}},
	{"Region II", []string{"CAGAYAN VALLEY"}},
	{"Region III", []string{"CENTRAL LUZON"}},
	{"Region IV-A", []string{"CALABARZON"}},
	{"Region IV-B", []string{"MIMAROPA"}},
	{"Region V", []string{"BICOL"}},
	{"Region VI", []string{"WESTERN VISAYAS"}},
	{"Region VII", []string{"CENTRAL VISAYAS"}},
	{"Region VIII", []string{"EASTERN VISAYAS"}},
	{"Region IX", []string{"ZAMBOANGA"}},
	{"Region X", []string{"NORTHERN MINDANAO"}},
	{"Region XI", []string{"DAVAO"}},
	{"Region XII", []string{"SOCCSKSARGEN"}},
	{"Region XIII", []string{"CARAGA"}},
}

var romanNumerals = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII", "XIII"}

var (
	reCAR          = regexp.MustCompile(`\bCAR\b|CORDILLERA`)
	reRegionRoman  = regexp.MustCompile(`REGION\s*(XIII|XII|XI|X|IX|VIII|VII|VI|V|IV|III|II|I)(?:\s*[-–]?\s*([AB]))?\b`)
	reRegionNumber = regexp.MustCompile(`REGION\s*(\d{1,2})(?:\s*[-–]?\s*([AB]))?\b`)
	reBareNumber   = regexp.MustCompile(`\b(\d{1,2})(?:\s*[-–]?\s*([AB]))?\b`)
)

// CanonicalRegion reduces free text ("Region 3", "CENTRAL LUZON", "Cordillera
// Administrative Region") to one of RegionSheets. It never fails; ok is false
// when nothing matched and callers fall back to UnknownRegion.
func CanonicalRegion(v string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if s == "" {
		return "", false
	}
	if reCAR.MatchString(s) {
		return "CAR", true
	}
	// IV without its A/B suffix names no single region; the keywords may still decide.
	if m := reRegionRoman.FindStringSubmatch(s); m != nil {
		switch {
		case m[1] != "IV":
			return "Region " + m[1], true
		case m[2] != "":
			return "Region IV-" + m[2], true
		}
	} else {
		m = reRegionNumber.FindStringSubmatch(s)
		if m == nil {
			m = reBareNumber.FindStringSubmatch(s)
		}
		if m != nil {
			n, _ := strconv.Atoi(m[1])
			switch {
			case n == 4 && m[2] != "":
				return "Region IV-" + m[2], true
			case n != 4 && n >= 1 && n <= len(romanNumerals):
				return "Region " + romanNumerals[n-1], true
			}
		}
	}
	for _, e := range regionKeywords {
		for _, k := range e.keywords {
			if strings.Contains(s, k) {
				return e.region, true
			}
		}
	}
	return "", false
}

// RegionOrUnknown is CanonicalRegion with the UnknownRegion fallback applied.
func RegionOrUnknown(v string) string {
	if r, ok := CanonicalRegion(v); ok && slices.Contains(RegionSheets, r) {
		return r
	}
	return UnknownRegion
}
