package store

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"survey-service/internal/survey/model"
	"survey-service/internal/survey/service"
)

// recordDocument is the stored shape of a canonical record: the joined
// municipality and an empty location ride along for older readers.
func recordDocument(r model.Record) map[string]any {
	return map[string]any{
		"surveyNumber":   r.SurveyNumber,
		"region":         r.Region,
		"province":       r.Province,
		"municipality":   r.Municipality(),
		"municipalities": nonNil(r.Municipalities),
		"barangays":      nonNil(r.Barangays),
		"totalArea":      r.TotalArea,
		"icc":            nonNil(r.ICC),
		"remarks":        r.Remarks,
		"location":       "",
	}
}

// withLists replaces nil lists so they serialize as [].
func withLists(r model.Record) model.Record {
	r.Municipalities, r.Barangays, r.ICC = nonNil(r.Municipalities), nonNil(r.Barangays), nonNil(r.ICC)
	return r
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

var (
	docListSep = regexp.MustCompile(`(?i)[,;/|]|\band\b`)
	keyFold    = strings.NewReplacer("_", " ", "-", " ")
)

var docCandidates = map[model.Field][]string{
	model.FieldSurveyNumber: {"survey number", "survey no", "survey #", "survey"},
	model.FieldRegion:       {"region", "sheet"},
	model.FieldProvince:     {"province"},
	model.FieldMunicipality: {"municipality", "municipalities", "municipality/ies"},
	model.FieldBarangay:     {"barangay", "barangays", "barangay/s"},
	model.FieldTotalArea:    {"total area", "area", "area (ha)"},
	model.FieldICC:          {"icc", "iccs", "icc/ips", "ip"},
	model.FieldRemarks:      {"remarks", "note", "notes"},
}

// NormalizeDocument maps an arbitrary document (keys taken from spreadsheet
// headers) onto a Record. Keys are matched exactly first, then by containment
// either way; containment ignores candidates and keys shorter than 3 chars.
func NormalizeDocument(fields map[string]any) model.Record {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lookup := make(map[string]string, len(keys))
	folded := make([]string, 0, len(keys))
	for _, k := range keys {
		f := foldKey(k)
		if _, dup := lookup[f]; dup {
			continue
		}
		lookup[f] = k
		folded = append(folded, f)
	}

	find := func(f model.Field) string {
		cands := docCandidates[f]
		for _, c := range cands {
			if k, ok := lookup[c]; ok {
				return k
			}
		}
		for _, k := range folded {
			for _, c := range cands {
				if len(c) < 3 || len(k) < 3 {
					continue
				}
				if strings.Contains(k, c) || strings.Contains(c, k) {
					return lookup[k]
				}
			}
		}
		return ""
	}
	get := func(f model.Field) any {
		if k := find(f); k != "" {
			return fields[k]
		}
		return nil
	}

	r := model.Record{
		SurveyNumber:   textValue(get(model.FieldSurveyNumber)),
		Region:         textValue(get(model.FieldRegion)),
		Province:       textValue(get(model.FieldProvince)),
		Municipalities: listValue(get(model.FieldMunicipality)),
		Barangays:      listValue(get(model.FieldBarangay)),
		TotalArea:      areaValue(get(model.FieldTotalArea)),
		ICC:            listValue(get(model.FieldICC)),
		Remarks:        textValue(get(model.FieldRemarks)),
	}
	if r.SurveyNumber == "" {
		for _, k := range folded {
			if !strings.Contains(k, "survey") {
				continue
			}
			if v := textValue(fields[lookup[k]]); v != "" {
				r.SurveyNumber = v
				break
			}
		}
	}
	return r
}

func foldKey(k string) string {
	return service.NormalizeHeader(keyFold.Replace(k))
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func listValue(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, s := range t {
			if s := textValue(s); s != "" {
				out = append(out, s)
			}
		}
	default:
		for _, s := range docListSep.Split(textValue(t), -1) {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func areaValue(v any) float64 {
	switch t := v.(type) {
	case float64:
		return max(t, 0)
	case int:
		return float64(max(t, 0))
	case int64:
		return float64(max(t, 0))
	default:
		return service.ParseAreaValue(textValue(t))
	}
}
