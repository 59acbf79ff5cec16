package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"survey-service/internal/survey/model"
)

func TestWriteGroupsByRegion(t *testing.T) {
	records := []model.Record{
		{SurveyNumber: "SN-1", Region: "CENTRAL LUZON", Province: "Tarlac", Municipalities: []string{"Capas", "Bamban"}, TotalArea: 12.5, ICC: []string{"Aeta", "Abelling"}},
		{SurveyNumber: "SN-2", Region: "Atlantis"},
		{SurveyNumber: "SN-3", Region: "Cordillera", Barangays: []string{"Balili"}},
		{SurveyNumber: "SN-4", Region: "Region 3"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"CAR", "Region III", "Unknown"}, f.GetSheetList())

	rows, err := f.GetRows("Region III")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"SN-1", "Tarlac", "Capas, Bamban", "", "12.5", "Aeta; Abelling", "", "Region III"}, rows[1])
	assert.Equal(t, "SN-4", rows[2][0])
	assert.Len(t, rows[2], 8, "zero area is written as an empty cell")
	assert.Equal(t, "", rows[2][4])

	car, err := f.GetRows("CAR")
	require.NoError(t, err)
	assert.Equal(t, "Balili", car[1][3])
}

func TestWorkbookWithoutRecords(t *testing.T) {
	f, err := Workbook(nil)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Mappings"}, f.GetSheetList())
	rows, err := f.GetRows("Mappings")
	require.NoError(t, err)
	assert.Equal(t, [][]string{Headers}, rows)
}

func TestGroupOrder(t *testing.T) {
	order, groups := Group([]model.Record{{Region: ""}, {Region: "Region XIII"}, {Region: "Ilocos"}})
	assert.Equal(t, []string{"Region I", "Region XIII", "Unknown"}, order)
	assert.Len(t, groups["Unknown"], 1)
}

func TestWorkbookKeepsEveryRecord(t *testing.T) {
	records := []model.Record{
		{SurveyNumber: "SN-1", Region: "Region IV"},
		{SurveyNumber: "SN-2", Region: "Region 4"},
		{SurveyNumber: "SN-3", Region: "Region III"},
		{SurveyNumber: "SN-4", Region: "Region IVA"},
	}

	order, groups := Group(records)
	assert.Equal(t, []string{"Region III", "Region IV-A", "Unknown"}, order)

	f, err := Workbook(records)
	require.NoError(t, err)
	defer f.Close()

	written := 0
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		require.NoError(t, err)
		written += len(rows) - 1
	}
	assert.Equal(t, len(records), written)
	assert.Len(t, groups["Unknown"], 2)
}
