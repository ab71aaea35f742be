package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func visit(id string, day, severity int) *model.Visit {
	return &model.Visit{
		VisitID:       id,
		PatientID:     "PAT-1",
		VisitDate:     model.NewDate(time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)),
		SeverityScore: severity,
	}
}

func changes(points []model.TrendPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.SeverityChange
	}
	return out
}

func TestDerive(t *testing.T) {
	points := Derive([]*model.Visit{visit("V1", 1, 2), visit("V2", 5, 4), visit("V3", 10, 4)})

	assert.Equal(t, []string{"first-visit", "increased", "unchanged"}, changes(points))
	assert.Equal(t, model.TrendNoChange, points[0].TrendStatus)
	assert.Equal(t, model.TrendIncreased, points[1].TrendStatus)
	assert.Equal(t, model.TrendNoChange, points[2].TrendStatus)
}

func TestDeriveOnlyComparesImmediatePredecessor(t *testing.T) {
	points := Derive([]*model.Visit{visit("V1", 1, 5), visit("V2", 2, 1), visit("V3", 3, 3)})

	assert.Equal(t, []string{"first-visit", "improved", "increased"}, changes(points))
}

func TestDeriveOrdersByDate(t *testing.T) {
	in := []*model.Visit{visit("V3", 10, 1), visit("V1", 1, 3)}
	points := Derive(in)

	require.Len(t, points, 2)
	assert.Equal(t, "V1", points[0].VisitID)
	assert.Equal(t, model.TrendImproved, points[1].TrendStatus)
	assert.Equal(t, "V3", in[0].VisitID, "input untouched")
}

func TestDeriveEmpty(t *testing.T) {
	assert.Empty(t, Derive(nil))
}
