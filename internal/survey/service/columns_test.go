package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-service/internal/survey/model"
)

func TestMapColumnsColumnar(t *testing.T) {
	cols, layout, err := MapColumns(model.Row(columnarHeader))
	require.NoError(t, err)
	assert.Equal(t, model.Columnar, layout)
	assert.Equal(t, model.HeaderMap{
		model.FieldSurveyNumber: 0,
		model.FieldProvince:     1,
		model.FieldMunicipality: 2,
		model.FieldBarangay:     3,
		model.FieldTotalArea:    4,
		model.FieldICC:          5,
		model.FieldRemarks:      6,
		model.FieldRegion:       7,
	}, cols)
}

func TestMapColumnsNarrative(t *testing.T) {
	cols, layout, err := MapColumns(model.Row(narrativeHeader))
	require.NoError(t, err)
	assert.Equal(t, model.Narrative, layout)
	assert.Equal(t, 1, cols[model.FieldLocation])
	assert.False(t, cols.Has(model.FieldProvince))
	assert.False(t, cols.Has(model.FieldRegion))
}

func TestMapColumnsFirstColumnWins(t *testing.T) {
	header := model.Row{"Survey No.", "Province", "Province (old)", "Municipality/ies", "Barangay/s", "Area (ha)", "ICCs/IPs", "Remarks"}
	cols, layout, err := MapColumns(header)
	require.NoError(t, err)
	assert.Equal(t, model.Columnar, layout)
	assert.Equal(t, 1, cols[model.FieldProvince])
	assert.Equal(t, 3, cols[model.FieldMunicipality])
	assert.Equal(t, 6, cols[model.FieldICC])
}

func TestMapColumnsFuzzyFallback(t *testing.T) {
	// "Lot / Survey #" fails the direct rules and only matches the "survey #" label.
	header := model.Row{"Lot / Survey #", "Province", "Municipalities", "Barangays", "Total  Area", "ICC/IP Group", "Remarks"}
	cols, _, err := MapColumns(header)
	require.NoError(t, err)
	assert.Equal(t, 0, cols[model.FieldSurveyNumber])
	assert.Equal(t, 4, cols[model.FieldTotalArea])
	assert.Equal(t, 5, cols[model.FieldICC])
}

func TestMapColumnsMergedHeaderProbe(t *testing.T) {
	header := model.Row{"Survey No.", "Lot Loca", "tion Details", "Area (ha)", "ICC", "Remarks"}
	cols, layout, err := MapColumns(header)
	require.NoError(t, err)
	assert.Equal(t, model.Narrative, layout)
	assert.Equal(t, narrativeTemplate(), cols)
}

func TestMapColumnsPositionalTemplates(t *testing.T) {
	tests := []struct {
		name       string
		header     model.Row
		wantLayout model.Layout
		wantCols   model.HeaderMap
		wantErr    bool
	}{
		{
			name:       "eight columns",
			header:     model.Row{"1", "2", "3", "4", "5", "6", "7", "8"},
			wantLayout: model.Columnar,
			wantCols:   columnarTemplate(true),
		},
		{
			name:       "seven columns",
			header:     model.Row{"1", "2", "3", "4", "5", "6", "7"},
			wantLayout: model.Columnar,
			wantCols:   columnarTemplate(false),
		},
		{
			name:       "five columns",
			header:     model.Row{"1", "2", "3", "4", "5"},
			wantLayout: model.Narrative,
			wantCols:   narrativeTemplate(),
		},
		{
			name:    "four columns",
			header:  model.Row{"1", "2", "3", "4"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, layout, err := MapColumns(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHeaders)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLayout, layout)
			assert.Equal(t, tt.wantCols, cols)
		})
	}
}

func TestMapColumnsRejectsIncompleteColumnar(t *testing.T) {
	_, layout, err := MapColumns(model.Row{"Survey Number", "Province", "Municipality", "Barangay", "Total Area"})
	assert.Equal(t, model.Columnar, layout)
	assert.ErrorIs(t, err, ErrInvalidHeaders)
	assert.Contains(t, err.Error(), "icc")
	assert.Contains(t, err.Error(), "remarks")
}

func TestMapColumnsRejectsIncompleteNarrative(t *testing.T) {
	_, layout, err := MapColumns(model.Row{"Survey", "Location", "Area"})
	assert.Equal(t, model.Narrative, layout)
	assert.ErrorIs(t, err, ErrInvalidHeaders)
}
