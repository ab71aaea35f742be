// Package trend classifies how a patient's severity moved from one visit to the next.
package trend

import (
	"sort"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// Derive labels each visit against the visit immediately before it. Visits
// are ordered by visit_date ascending first; equal dates keep their input order.
// The input slice is not reordered.
func Derive(visits []*model.Visit) []model.TrendPoint {
	ordered := make([]*model.Visit, len(visits))
	copy(ordered, visits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].VisitDate.Before(ordered[j].VisitDate)
	})

	points := make([]model.TrendPoint, 0, len(ordered))
	for i, v := range ordered {
		point := model.TrendPoint{
			VisitID:        v.VisitID,
			VisitDate:      v.VisitDate,
			SeverityScore:  v.SeverityScore,
			DoctorID:       v.DoctorID,
			TrendStatus:    model.TrendNoChange,
			SeverityChange: model.SeverityFirstVisit,
		}
		if i > 0 {
			point.TrendStatus, point.SeverityChange = classify(ordered[i-1].SeverityScore, v.SeverityScore)
		}
		points = append(points, point)
	}
	return points
}

func classify(prev, cur int) (status, change string) {
	switch {
	case cur > prev:
		return model.TrendIncreased, model.SeverityIncreased
	case cur < prev:
		return model.TrendImproved, model.SeverityImproved
	default:
		return model.TrendNoChange, model.SeverityUnchanged
	}
}
