package service

import (
	"github.com/montanaflynn/stats"

	"survey-service/internal/survey/model"
)

// Summarize aggregates area and region counts over records. Regions are
// grouped by their canonical label.
func Summarize(records []model.Record) model.Summary {
	s := model.Summary{TotalRecords: len(records), ByRegion: map[string]int{}}
	if len(records) == 0 {
		return s
	}

	areas := make(stats.Float64Data, 0, len(records))
	distinct := map[string]struct{}{}
	for _, r := range records {
		areas = append(areas, r.TotalArea)
		distinct[r.Region] = struct{}{}
		s.ByRegion[RegionOrUnknown(r.Region)]++
	}
	s.Regions = len(distinct)

	// errors only come from empty input, ruled out above
	s.TotalArea, _ = areas.Sum()
	s.MeanArea, _ = areas.Mean()
	s.MedianArea, _ = areas.Median()
	return s
}
