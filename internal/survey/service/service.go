package service

import (
	"errors"

	"survey-service/internal/survey/model"
)

// ParseSheet runs header location, column mapping and reconstruction on one sheet.
// Failures come back as *SheetError wrapping ErrEmptySheet, ErrNoHeaderFound or ErrInvalidHeaders.
func ParseSheet(sheet model.Sheet) (model.SheetResult, error) {
	res := model.SheetResult{Sheet: sheet.Name, HeaderRow: -1}
	if isEmptySheet(sheet.Rows) {
		return res, &SheetError{Sheet: sheet.Name, Err: ErrEmptySheet}
	}

	hdr, ok := FindHeaderRowIndex(sheet.Rows)
	if !ok {
		return res, &SheetError{Sheet: sheet.Name, Err: ErrNoHeaderFound}
	}
	res.HeaderRow = hdr

	cols, layout, err := MapColumns(headerRow(sheet, hdr))
	res.Columns, res.Layout = cols, layout
	if err != nil {
		return res, &SheetError{Sheet: sheet.Name, Err: err}
	}

	res.Records, res.RawRows = BuildRecords(sheet.Rows, hdr, cols, layout, sheet.Name)
	return res, nil
}

// ParseWorkbook parses sheets in order. A bad sheet is listed in InvalidSheets
// and never stops the remaining ones; empty sheets are skipped silently.
func ParseWorkbook(sheets []model.Sheet) model.ParseResult {
	out := model.ParseResult{Sheets: []model.SheetResult{}, InvalidSheets: []model.SheetIssue{}}
	for _, sh := range sheets {
		res, err := ParseSheet(sh)
		switch {
		case err == nil:
			out.Sheets = append(out.Sheets, res)
		case errors.Is(err, ErrEmptySheet):
		case errors.Is(err, ErrNoHeaderFound):
			out.InvalidSheets = append(out.InvalidSheets, model.SheetIssue{Sheet: sh.Name, Reason: model.ReasonNoHeader})
		default:
			out.InvalidSheets = append(out.InvalidSheets, model.SheetIssue{Sheet: sh.Name, Reason: model.ReasonInvalidHeaders})
		}
	}
	return out
}

// headerRow pads the header to the sheet's declared width so blank trailing
// columns still count toward the positional templates.
func headerRow(sheet model.Sheet, hdr int) model.Row {
	h := sheet.Rows[hdr]
	if sheet.Width <= len(h) {
		return h
	}
	padded := make(model.Row, sheet.Width)
	copy(padded, h)
	return padded
}

func isEmptySheet(rows []model.Row) bool {
	for _, r := range rows {
		if !r.Blank() {
			return false
		}
	}
	return true
}
