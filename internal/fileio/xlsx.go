package fileio

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"survey-service/internal/survey/model"
)

func readXLSX(r io.Reader) ([]model.Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var out []model.Sheet
	for _, name := range f.GetSheetList() {
		// raw values: areas must come through as 12345.5, not "12,345.50"
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		recs, width := toRows(rows)
		out = append(out, model.Sheet{Name: name, Rows: recs, Width: max(width, dimensionWidth(f, name))})
	}
	return out, nil
}

// dimensionWidth reads the column count from the sheet's declared range,
// which still covers trailing columns that hold no values.
func dimensionWidth(f *excelize.File, sheet string) int {
	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return 0
	}
	parts := strings.Split(dim, ":")
	col, _, err := excelize.CellNameToCoordinates(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return col
}
