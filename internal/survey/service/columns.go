package service

import (
	"fmt"
	"strings"

	"survey-service/internal/survey/model"
)

// fuzzyLabels are tried for fields the direct rules left unmapped.
var fuzzyLabels = map[model.Field][]string{
	model.FieldSurveyNumber: {"survey number", "survey no", "survey #", "survey"},
	model.FieldLocation:     {"location"},
	model.FieldProvince:     {"province"},
	model.FieldMunicipality: {"municipality", "municipality/ies", "municipalities"},
	model.FieldBarangay:     {"barangays", "barangay/s", "barangay"},
	model.FieldTotalArea:    {"total area", "area", "area (ha)"},
	model.FieldICC:          {"icc", "iccs/ips", "iccs", "icc/ips"},
	model.FieldRemarks:      {"remarks"},
	model.FieldRegion:       {"region", "sheet"},
}

var (
	requiredColumnar = []model.Field{
		model.FieldSurveyNumber, model.FieldProvince, model.FieldMunicipality,
		model.FieldBarangay, model.FieldTotalArea, model.FieldICC, model.FieldRemarks,
	}
	requiredNarrative = []model.Field{
		model.FieldSurveyNumber, model.FieldLocation, model.FieldTotalArea,
		model.FieldICC, model.FieldRemarks,
	}
)

// classifyHeader applies the direct rules; first rule wins.
func classifyHeader(cell string) (model.Field, bool) {
	n := NormalizeHeader(cell)
	if n == "" {
		return "", false
	}
	c := CompactHeader(n)
	switch {
	case strings.Contains(n, "survey") && strings.Contains(n, "number"), strings.HasPrefix(n, "survey"):
		return model.FieldSurveyNumber, true
	case strings.Contains(n, "location"):
		return model.FieldLocation, true
	case strings.Contains(n, "province"):
		return model.FieldProvince, true
	case strings.Contains(n, "municipality"), strings.Contains(n, "municipalities"), strings.Contains(c, "municipality"):
		return model.FieldMunicipality, true
	case strings.Contains(n, "barangay"), strings.Contains(n, "barangays"):
		return model.FieldBarangay, true
	case strings.Contains(n, "area"):
		return model.FieldTotalArea, true
	case strings.Contains(n, "icc"), strings.Contains(n, "ips"):
		return model.FieldICC, true
	case strings.Contains(n, "remark"):
		return model.FieldRemarks, true
	case strings.Contains(n, "region"), n == "sheet":
		return model.FieldRegion, true
	}
	return "", false
}

// fuzzyColumn returns the first column matching any label exactly, by
// containment either way, or by compacted containment.
func fuzzyColumn(header model.Row, labels []string) (int, bool) {
	for i, cell := range header {
		h := NormalizeHeader(cell)
		if h == "" {
			continue
		}
		hc := CompactHeader(h)
		for _, l := range labels {
			ln, lc := NormalizeHeader(l), CompactHeader(l)
			if h == ln || strings.Contains(h, ln) || strings.Contains(ln, h) {
				return i, true
			}
			if hc != "" && lc != "" && strings.Contains(hc, lc) {
				return i, true
			}
		}
	}
	return -1, false
}

// MapColumns resolves canonical fields to header columns and decides the layout.
// The positional templates are a best-effort shim for headers that name nothing
// recognizable; their order matters and is kept as is.
func MapColumns(header model.Row) (model.HeaderMap, model.Layout, error) {
	cols := model.HeaderMap{}
	for i, cell := range header {
		if f, ok := classifyHeader(cell); ok && !cols.Has(f) {
			cols[f] = i
		}
	}
	for _, f := range model.Fields {
		if cols.Has(f) {
			continue
		}
		if i, ok := fuzzyColumn(header, fuzzyLabels[f]); ok {
			cols[f] = i
		}
	}

	layout := model.Columnar
	narrative := cols.Has(model.FieldLocation) &&
		!cols.Has(model.FieldProvince) && !cols.Has(model.FieldMunicipality) && !cols.Has(model.FieldBarangay)

	width := len(header)
	if !narrative && !cols.Has(model.FieldLocation) && width >= 5 {
		merged := make([]string, len(header))
		for i, cell := range header {
			merged[i] = NormalizeHeader(cell)
		}
		m := CompactHeader(strings.Join(merged, " "))
		if strings.Contains(m, "survey") && strings.Contains(m, "location") && strings.Contains(m, "area") {
			cols = narrativeTemplate()
			narrative = true
		}
	}

	if !narrative && !cols.Has(model.FieldSurveyNumber) {
		switch {
		case width >= 8:
			cols = columnarTemplate(true)
		case width >= 7:
			cols = columnarTemplate(false)
		case width >= 5:
			cols = narrativeTemplate()
			narrative = true
		}
	}

	required := requiredColumnar
	if narrative {
		layout = model.Narrative
		required = requiredNarrative
	}
	var missing []model.Field
	for _, f := range required {
		if !cols.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return cols, layout, fmt.Errorf("%w: %s layout is missing %s", ErrInvalidHeaders, layout, describeMissing(header, cols, missing))
	}
	return cols, layout, nil
}

func narrativeTemplate() model.HeaderMap {
	return model.HeaderMap{
		model.FieldSurveyNumber: 0,
		model.FieldLocation:     1,
		model.FieldTotalArea:    2,
		model.FieldICC:          3,
		model.FieldRemarks:      4,
	}
}

func columnarTemplate(withRegion bool) model.HeaderMap {
	m := model.HeaderMap{
		model.FieldSurveyNumber: 0,
		model.FieldProvince:     1,
		model.FieldMunicipality: 2,
		model.FieldBarangay:     3,
		model.FieldTotalArea:    4,
		model.FieldICC:          5,
		model.FieldRemarks:      6,
	}
	if withRegion {
		m[model.FieldRegion] = 7
	}
	return m
}
