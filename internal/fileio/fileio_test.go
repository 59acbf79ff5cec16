package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"survey-service/internal/survey/model"
)

func buildXLSX(t *testing.T, sheets map[string][][]any, order []string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadWorkbookXLSXAllSheets(t *testing.T) {
	buf := buildXLSX(t, map[string][][]any{
		"Region III": {
			{"Survey Number", "Province", "Total Area"},
			{"SN-1", " Tarlac ", 12345.5},
		},
		"CAR": {
			{"Survey", "Location"},
		},
	}, []string{"Region III", "CAR"})

	sheets, err := ReadWorkbook(buf, "inventory.xlsx")
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	assert.Equal(t, "Region III", sheets[0].Name)
	assert.Equal(t, []model.Row{
		{"Survey Number", "Province", "Total Area"},
		{"SN-1", "Tarlac", "12345.5"},
	}, sheets[0].Rows)
	assert.Equal(t, "CAR", sheets[1].Name)
}

func TestReadWorkbookCSV(t *testing.T) {
	in := "\xEF\xBB\xBFSurvey Number,Barangay,Area\nSN-1,\"Sto. Niño, Poblacion\",\"1,200\"\n,,\n"
	sheets, err := ReadWorkbook(strings.NewReader(in), "/tmp/Region V.csv")
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	assert.Equal(t, "Region V", sheets[0].Name)
	assert.Equal(t, []model.Row{
		{"Survey Number", "Barangay", "Area"},
		{"SN-1", "Sto. Niño, Poblacion", "1,200"},
		{},
	}, sheets[0].Rows)
}

func TestReadWorkbookCSVKeepsDeclaredWidth(t *testing.T) {
	in := "Col1,Col2,Col3,Col4,Col5,Col6,\nSN-1,Tarlac,Capas,Aranguren,10,Aeta,\n"
	sheets, err := ReadWorkbook(strings.NewReader(in), "inventory.csv")
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	assert.Len(t, sheets[0].Rows[0], 6)
	assert.Equal(t, 7, sheets[0].Width)
}

func TestReadWorkbookCSVWindows1252(t *testing.T) {
	in := []byte("Barangay,Municipality,Province\n" +
		"Sto. Ni\xF1o,Dasmari\xF1as,Cavite\n" +
		"San Jos\xE9,Para\xF1aque,Metro Manila\n" +
		"Pe\xF1aranda,Pe\xF1aranda,Nueva Ecija\n" +
		"Santo Ni\xF1o,Bi\xF1an,Laguna\n")
	sheets, err := ReadWorkbook(bytes.NewReader(in), "legacy.csv")
	require.NoError(t, err)
	require.Len(t, sheets[0].Rows, 5)
	assert.Equal(t, model.Row{"Sto. Niño", "Dasmariñas", "Cavite"}, sheets[0].Rows[1])
	assert.Equal(t, "San José", sheets[0].Rows[2][0])
}

func TestReadWorkbookUnsupported(t *testing.T) {
	_, err := ReadWorkbook(strings.NewReader(""), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("notes.txt"))
	assert.True(t, Supported("A.XLSX"))
}

func TestToRowsTrimsTrailingEmptyCells(t *testing.T) {
	got, width := toRows([][]string{{"a", " b\u00a0", "", " "}, {"", "x"}})
	assert.Equal(t, []model.Row{{"a", "b"}, {"", "x"}}, got)
	assert.Equal(t, 4, width)
}
