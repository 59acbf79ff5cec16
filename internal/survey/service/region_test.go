package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalRegion(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Region III", "Region III", true},
		{"CENTRAL LUZON", "Region III", true},
		{"Cordillera Administrative Region", "CAR", true},
		{"car", "CAR", true},
		{"Region IV-A", "Region IV-A", true},
		{"Region 4B", "Region IV-B", true},
		{"Region 12", "Region XII", true},
		{"Region IX", "Region IX", true},
		{"CARAGA", "Region XIII", true},
		{"Davao Region", "Region XI", true},
		{"Region XIII (Caraga)", "Region XIII", true},
		{"REGION IVA", "Region IV-A", true},
		{"Region 4-A", "Region IV-A", true},
		{"Region IV", "", false},
		{"Region 4", "", false},
		{"Region IV Calabarzon", "Region IV-A", true},
		{"Region IV Batangas", "", false},
		{"Ilocos Region", "Region I", true},
		{"Atlantis", "", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalRegion(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegionOrUnknown(t *testing.T) {
	assert.Equal(t, UnknownRegion, RegionOrUnknown(""))
	assert.Equal(t, "Region V", RegionOrUnknown("Bicol"))
	assert.Equal(t, UnknownRegion, RegionOrUnknown("Region IV"))
}

func TestCanonicalRegionStaysInRegionSheets(t *testing.T) {
	inputs := []string{
		"Region IV", "Region 4", "REGION IVA", "region iv-b", "Region 0", "Region 14",
		"4", "4B", "Region XIII", "Region 13", "IV", "Mimaropa", "car", "Region I-A",
	}
	for _, in := range inputs {
		if r, ok := CanonicalRegion(in); ok {
			assert.Contains(t, RegionSheets, r, "input %q", in)
		}
	}
}
