package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"survey-service/internal/survey/model"
)

// ErrUnsupportedFormat is returned for extensions other than .xlsx, .xls and .csv.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadWorkbook picks a decoder by extension and returns every sheet as text rows.
// A CSV file is a single sheet named after the file.
func ReadWorkbook(r io.Reader, filename string) ([]model.Sheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		rows, width, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		return []model.Sheet{{Name: sheetNameFromFile(filename), Rows: rows, Width: width}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// Supported reports whether ReadWorkbook can decode filename.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
		return true
	}
	return false
}

func sheetNameFromFile(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "Sheet1"
	}
	return name
}

// normalizeCell turns NBSP into spaces and trims; empty cells stay "".
func normalizeCell(v string) string {
	v = strings.ReplaceAll(v, "\u00a0", " ")
	return strings.TrimSpace(v)
}

// toRows converts decoded records, trimming trailing empty cells. width is the
// widest record as decoded, before trimming.
func toRows(in [][]string) ([]model.Row, int) {
	out := make([]model.Row, 0, len(in))
	width := 0
	for _, rec := range in {
		width = max(width, len(rec))
		row := make(model.Row, len(rec))
		for i, v := range rec {
			row[i] = normalizeCell(v)
		}
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}
		out = append(out, row[:end])
	}
	return out, width
}
