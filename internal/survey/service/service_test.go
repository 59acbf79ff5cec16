package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-service/internal/survey/model"
)

func TestParseSheetErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []model.Row
		want error
	}{
		{"empty", rows([]string{"", " "}, nil), ErrEmptySheet},
		{"banner only", rows([]string{"Quarterly report"}, []string{"", "Prepared by"}), ErrNoHeaderFound},
		{"missing columns", rows([]string{"Survey Number", "Province"}, []string{"SN-1", "Rizal"}), ErrInvalidHeaders},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSheet(model.Sheet{Name: tt.name, Rows: tt.rows})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var se *SheetError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.name, se.Sheet)
		})
	}
}

func TestParseWorkbookIsolatesBadSheets(t *testing.T) {
	sheets := []model.Sheet{
		{Name: "Cover", Rows: rows([]string{"Quarterly report"})},
		{Name: "Blank"},
		{Name: "Region III", Rows: rows(
			[]string{"Mapping inventory"},
			columnarHeader[:7],
			[]string{"SN-1", "Tarlac", "Capas", "Aranguren", "10", "Aeta", ""},
			[]string{"SN-2", "Zambales", "Botolan", "Poonbato", "20", "Aeta", ""},
		)},
		{Name: "Draft", Rows: rows([]string{"Survey Number", "Province"})},
	}

	res := ParseWorkbook(sheets)

	require.Len(t, res.Sheets, 1)
	got := res.Sheets[0]
	assert.Equal(t, "Region III", got.Sheet)
	assert.Equal(t, 1, got.HeaderRow)
	assert.Equal(t, model.Columnar, got.Layout)
	assert.Len(t, got.Records, 2)
	assert.Len(t, got.RawRows, 2)

	assert.Equal(t, []model.SheetIssue{
		{Sheet: "Cover", Reason: model.ReasonNoHeader},
		{Sheet: "Draft", Reason: model.ReasonInvalidHeaders},
	}, res.InvalidSheets)
	assert.Equal(t, []string{"Cover", "Draft"}, res.InvalidSheetNames())
	assert.Len(t, res.Records(), 2)
	require.Len(t, res.RawSheets(), 1)
	assert.Equal(t, "Region III", res.RawSheets()[0].SheetName)
}

func TestParseWorkbookEmptyInput(t *testing.T) {
	res := ParseWorkbook(nil)
	assert.Empty(t, res.Sheets)
	assert.Empty(t, res.InvalidSheets)
	assert.Empty(t, res.Records())
}

func TestParseSheetUsesDeclaredWidth(t *testing.T) {
	in := rows(
		[]string{"Col1", "Col2", "Col3", "Col4", "Col5", "Col6"},
		[]string{"SN-1", "Tarlac", "Capas", "Aranguren", "10", "Aeta"},
	)

	res, err := ParseSheet(model.Sheet{Name: "Region III", Rows: in, Width: 7})
	require.NoError(t, err)
	assert.Equal(t, model.Columnar, res.Layout)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Tarlac", res.Records[0].Province)
	assert.Equal(t, []string{"Aeta"}, res.Records[0].ICC)

	res, err = ParseSheet(model.Sheet{Name: "Region III", Rows: in})
	require.NoError(t, err)
	assert.Equal(t, model.Narrative, res.Layout, "without a declared width the header length decides")
}
