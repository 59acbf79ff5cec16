// .xls reader: the table width is fixed up front and every cell up to it is read.
package fileio

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"

	"survey-service/internal/survey/model"
)

// computeMaxCols finds the real width by probing a reasonable number of columns
// for non-empty cells; Row.LastCol is unreliable on files from older exporters.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 512
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := maxCols; j < probeMax; j++ {
			if normalizeCell(r.Col(j)) != "" {
				maxCols = j + 1
			}
		}
	}
	return maxCols
}

func openXLS(b []byte) (*xls.WorkBook, error) {
	// legacy government exports are mostly cp1252; utf-8 covers the rest
	tryCharsets := []string{"utf-8", "windows-1252", "iso-8859-1"}
	var lastErr error
	for _, ch := range tryCharsets {
		wb, err := xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			return wb, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("xls: failed to open workbook")
	}
	return nil, lastErr
}

func readXLS(r io.Reader) ([]model.Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	wb, err := openXLS(b)
	if err != nil {
		return nil, err
	}

	var out []model.Sheet
	for s := 0; s < wb.NumSheets(); s++ {
		sheet := wb.GetSheet(s)
		if sheet == nil {
			continue
		}
		maxCols := computeMaxCols(sheet)
		recs := make([][]string, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			cols := make([]string, maxCols)
			if row != nil {
				for j := 0; j < maxCols; j++ {
					cols[j] = row.Col(j)
				}
			}
			recs = append(recs, cols)
		}
		rows, width := toRows(recs)
		out = append(out, model.Sheet{Name: sheet.Name, Rows: rows, Width: width})
	}
	return out, nil
}
