package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"survey-service/internal/survey/model"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]model.Record{
		{SurveyNumber: "A", Region: "Region III", TotalArea: 10},
		{SurveyNumber: "B", Region: "CENTRAL LUZON", TotalArea: 30},
		{SurveyNumber: "C", Region: "", TotalArea: 20},
	})

	assert.Equal(t, 3, s.TotalRecords)
	assert.Equal(t, 3, s.Regions)
	assert.InDelta(t, 60, s.TotalArea, 1e-9)
	assert.InDelta(t, 20, s.MeanArea, 1e-9)
	assert.InDelta(t, 20, s.MedianArea, 1e-9)
	assert.Equal(t, map[string]int{"Region III": 2, UnknownRegion: 1}, s.ByRegion)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalRecords)
	assert.Zero(t, s.TotalArea)
	assert.NotNil(t, s.ByRegion)
}
