package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"survey-service/internal/survey/model"
)

func TestFindHeaderRowIndex(t *testing.T) {
	tests := []struct {
		name   string
		rows   []model.Row
		want   int
		wantOK bool
	}{
		{
			name: "header below banner",
			rows: rows(
				[]string{"DEPARTMENT OF ENVIRONMENT"},
				[]string{"Land survey listing"},
				[]string{},
				columnarHeader,
				[]string{"SN-1", "Rizal", "Antipolo", "San Roque", "10", "Dumagat", "", "Region IV-A"},
			),
			want: 3, wantOK: true,
		},
		{
			name: "tie on matches prefers denser row",
			rows: rows(
				[]string{"Survey"},
				[]string{"Survey", "Notes", "Owner"},
			),
			want: 1, wantOK: true,
		},
		{
			name: "density fallback without keywords",
			rows: rows(
				[]string{"Title"},
				[]string{"Col A", "Col B", "Col C"},
				[]string{"x", "y"},
			),
			want: 1, wantOK: true,
		},
		{
			name:   "banner and blanks only",
			rows:   rows([]string{"Annual Report"}, []string{}, []string{"", " "}),
			want:   -1,
			wantOK: false,
		},
		{
			name:   "no rows",
			rows:   nil,
			want:   -1,
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := cloneRows(tt.rows)

			got, ok := FindHeaderRowIndex(tt.rows)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)

			for range 5 {
				again, againOK := FindHeaderRowIndex(tt.rows)
				assert.Equal(t, got, again)
				assert.Equal(t, ok, againOK)
			}
			assert.Equal(t, before, tt.rows, "input rows must not be modified")
		})
	}
}

func TestFindHeaderRowIndexScanWindow(t *testing.T) {
	in := make([]model.Row, 0, 250)
	for i := 0; i < 210; i++ {
		in = append(in, model.Row{"x"})
	}
	in = append(in, model.Row(columnarHeader))

	_, ok := FindHeaderRowIndex(in)
	assert.False(t, ok, "rows past the scan window must not be considered")
}

func TestScoreHeaderRowCountsEveryKeyword(t *testing.T) {
	m, n := scoreHeaderRow(model.Row{"Survey Number", "", "Municipalities"})
	// survey and number from one cell, municipalities from another
	assert.Equal(t, 3, m)
	assert.Equal(t, 2, n)
}

func cloneRows(in []model.Row) []model.Row {
	if in == nil {
		return nil
	}
	out := make([]model.Row, len(in))
	for i, r := range in {
		if r != nil {
			out[i] = make(model.Row, len(r))
			copy(out[i], r)
		}
	}
	return out
}
