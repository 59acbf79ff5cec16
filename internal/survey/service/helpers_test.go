package service

import "survey-service/internal/survey/model"

func rows(in ...[]string) []model.Row {
	out := make([]model.Row, len(in))
	for i, r := range in {
		out[i] = model.Row(r)
	}
	return out
}

var (
	columnarHeader  = []string{"Survey Number", "Province", "Municipality", "Barangay", "Total Area", "ICC", "Remarks", "Region"}
	narrativeHeader = []string{"Survey", "Location", "Area", "ICC", "Remarks"}
)
