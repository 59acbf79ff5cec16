package service

import (
	"fmt"
	"strings"

	"survey-service/internal/survey/model"
)

// BuildRecords reconstructs canonical records from the rows below headerRow,
// plus a verbatim dump of every non-blank data row keyed by sanitized header.
func BuildRecords(rows []model.Row, headerRow int, cols model.HeaderMap, layout model.Layout, sheetName string) ([]model.Record, []map[string]string) {
	if headerRow < 0 || headerRow >= len(rows) {
		return []model.Record{}, nil
	}
	data := rows[headerRow+1:]

	var records []model.Record
	if layout == model.Narrative {
		records = buildNarrative(data, cols, sheetName)
	} else {
		records = buildColumnar(data, cols, sheetName)
	}
	return records, dumpRawRows(rows[headerRow], data)
}

func buildColumnar(data []model.Row, cols model.HeaderMap, sheetName string) []model.Record {
	out := []model.Record{}
	for _, row := range data {
		sn := cols.Get(row, model.FieldSurveyNumber)
		if sn == "" {
			continue
		}
		region := cols.Get(row, model.FieldRegion)
		if region == "" {
			region = sheetName
		}
		out = append(out, model.Record{
			SurveyNumber:   sn,
			Region:         region,
			Province:       cols.Get(row, model.FieldProvince),
			Municipalities: SplitListValue(cols.Get(row, model.FieldMunicipality)),
			Barangays:      SplitListValue(cols.Get(row, model.FieldBarangay)),
			TotalArea:      ParseAreaValue(cols.Get(row, model.FieldTotalArea)),
			ICC:            iccValue(cols.Get(row, model.FieldICC)),
			Remarks:        remarksValue(cols.Get(row, model.FieldRemarks)),
		})
	}
	return out
}

// accumulator collects one survey's location block. A nil *accumulator is the
// "no survey open yet" state.
type accumulator struct {
	surveyNumber   string
	provinces      []string
	municipalities []string
	barangays      []string
	totalArea      float64
	icc            []string
	remarks        string
}

func (a *accumulator) backfill(area, icc, remarks string) {
	if area != "" && a.totalArea == 0 {
		a.totalArea = ParseAreaValue(area)
	}
	if icc != "" && len(a.icc) == 0 {
		a.icc = iccValue(icc)
	}
	if remarks != "" && a.remarks == "" {
		a.remarks = remarksValue(remarks)
	}
}

// addLocationLine files "Province: X", "Municipality: Y, Z", "Barangay: ..."
// lines; anything else is ignored.
func (a *accumulator) addLocationLine(line string) {
	lower := strings.ToLower(line)
	payload := line
	if i := strings.Index(line, ":"); i >= 0 {
		payload = strings.TrimSpace(line[i+1:])
	}
	switch {
	case strings.HasPrefix(lower, "barangay"):
		a.barangays = append(a.barangays, SplitListValue(payload)...)
	case strings.HasPrefix(lower, "municipality"):
		a.municipalities = append(a.municipalities, SplitListValue(payload)...)
	case strings.HasPrefix(lower, "province"):
		a.provinces = append(a.provinces, SplitListValue(payload)...)
	}
}

func (a *accumulator) flush(sheetName string) model.Record {
	icc := a.icc
	if icc == nil {
		icc = []string{}
	}
	return model.Record{
		SurveyNumber:   a.surveyNumber,
		Region:         sheetName,
		Province:       strings.Join(dedupe(a.provinces), ", "),
		Municipalities: dedupe(a.municipalities),
		Barangays:      dedupe(a.barangays),
		TotalArea:      a.totalArea,
		ICC:            icc,
		Remarks:        a.remarks,
	}
}

func buildNarrative(data []model.Row, cols model.HeaderMap, sheetName string) []model.Record {
	out := []model.Record{}
	var cur *accumulator
	for _, row := range data {
		sn := cols.Get(row, model.FieldSurveyNumber)
		area := cols.Get(row, model.FieldTotalArea)
		icc := cols.Get(row, model.FieldICC)
		remarks := cols.Get(row, model.FieldRemarks)

		if sn != "" {
			if cur != nil {
				out = append(out, cur.flush(sheetName))
			}
			cur = &accumulator{
				surveyNumber: sn,
				totalArea:    ParseAreaValue(area),
				icc:          iccValue(icc),
				remarks:      remarksValue(remarks),
			}
		} else if cur == nil {
			continue
		}

		cur.backfill(area, icc, remarks)
		if loc := cols.Get(row, model.FieldLocation); loc != "" {
			cur.addLocationLine(loc)
		}
	}
	if cur != nil {
		out = append(out, cur.flush(sheetName))
	}
	return out
}

// dedupe keeps the first occurrence of each value, case-sensitive.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dumpRawRows(header model.Row, data []model.Row) []map[string]string {
	keys := make([]string, len(header))
	for i, h := range header {
		k := SanitizeFieldName(h)
		if k == "" {
			k = fmt.Sprintf("col_%d", i)
		}
		keys[i] = k
	}
	var out []map[string]string
	for _, row := range data {
		if row.Blank() {
			continue
		}
		m := make(map[string]string, len(keys))
		for i, k := range keys {
			m[k] = row.Cell(i)
		}
		out = append(out, m)
	}
	return out
}
