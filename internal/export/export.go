package export

import (
	"fmt"
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"survey-service/internal/survey/model"
	"survey-service/internal/survey/service"
)

var Headers = []string{"Survey Number", "Province", "Municipality", "Barangays", "Total Area", "ICC", "Remarks", "Sheet"}

// emptySheet names the only sheet of an export without records.
const emptySheet = "Mappings"

// Group buckets records by canonical region, in RegionSheets order then Unknown.
// Empty groups are left out.
func Group(records []model.Record) ([]string, map[string][]model.Record) {
	groups := map[string][]model.Record{}
	for _, r := range records {
		g := service.RegionOrUnknown(r.Region)
		groups[g] = append(groups[g], r)
	}
	var order []string
	for _, name := range append(append([]string{}, service.RegionSheets...), service.UnknownRegion) {
		if len(groups[name]) > 0 {
			order = append(order, name)
		}
	}
	return order, groups
}

func row(r model.Record, sheet string) []any {
	var area any = ""
	if r.TotalArea != 0 {
		area = r.TotalArea
	}
	return []any{
		r.SurveyNumber,
		r.Province,
		strings.Join(r.Municipalities, ", "),
		strings.Join(r.Barangays, ", "),
		area,
		strings.Join(r.ICC, "; "),
		r.Remarks,
		sheet,
	}
}

// Workbook builds one sheet per region group, each starting with Headers.
// The caller closes the file.
func Workbook(records []model.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	order, groups := Group(records)
	if len(order) == 0 {
		order = []string{emptySheet}
	}

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}

		hdr := make([]any, len(Headers))
		for j, h := range Headers {
			hdr[j] = h
		}
		if err := f.SetSheetRow(name, "A1", &hdr); err != nil {
			f.Close()
			return nil, err
		}
		for k, r := range groups[name] {
			cell, err := excelize.CoordinatesToCellName(1, k+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			vals := row(r, name)
			if err := f.SetSheetRow(name, cell, &vals); err != nil {
				f.Close()
				return nil, fmt.Errorf("write %s row %d: %w", name, k+2, err)
			}
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the export workbook to w.
func Write(w io.Writer, records []model.Record) error {
	f, err := Workbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}
