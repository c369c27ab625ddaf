// Package view builds the chart-ready summaries shown on the dashboard.
package view

import (
	"github.com/samber/lo"

	"github.com/sells-group/launch-dashboard/internal/model"
	"github.com/sells-group/launch-dashboard/internal/query"
)

// ID names a dashboard view.
type ID string

const (
	Proportion  ID = "proportion"
	Correlation ID = "correlation"
)

// IDs lists every view in display order.
var IDs = []ID{Proportion, Correlation}

// Slice is one labelled weight of a proportion chart.
type Slice struct {
	Label  string `json:"label" yaml:"label"`
	Weight int    `json:"weight" yaml:"weight"`
}

// ProportionView holds success shares for the pie chart.
type ProportionView struct {
	Site   model.SiteSelector `json:"site" yaml:"site"`
	Slices []Slice            `json:"slices" yaml:"slices"`
}

// Total sums the slice weights.
func (v ProportionView) Total() int {
	return lo.SumBy(v.Slices, func(s Slice) int { return s.Weight })
}

// BuildProportion summarizes outcomes for the selected site.
//
// For AllSites it counts successful launches per site over the whole table,
// in order of first appearance. For one site it counts failures ("0") and
// successes ("1") at that site. The payload range is never applied here, so
// the pie chart does not follow the range selector while the scatter chart
// does. The asymmetry is likely a defect.
func BuildProportion(records []model.Launch, site model.SiteSelector) ProportionView {
	if site.IsAll() {
		return ProportionView{Site: site, Slices: successesBySite(records)}
	}

	subset := query.BySite(records, site)
	if len(subset) == 0 {
		return ProportionView{Site: site, Slices: []Slice{}}
	}

	successes := lo.CountBy(subset, func(l model.Launch) bool { return l.Succeeded() })
	return ProportionView{
		Site: site,
		Slices: []Slice{
			{Label: "0", Weight: len(subset) - successes},
			{Label: "1", Weight: successes},
		},
	}
}

func successesBySite(records []model.Launch) []Slice {
	slices := []Slice{}
	index := make(map[string]int)
	for _, l := range records {
		i, ok := index[l.Site]
		if !ok {
			i = len(slices)
			index[l.Site] = i
			slices = append(slices, Slice{Label: l.Site})
		}
		slices[i].Weight += l.Outcome
	}
	return slices
}

// Point is one launch on the payload/outcome scatter chart.
type Point struct {
	PayloadMassKG   float64 `json:"payload_mass_kg" yaml:"payload_mass_kg"`
	Outcome         int     `json:"class" yaml:"class"`
	BoosterCategory string  `json:"booster_version_category" yaml:"booster_version_category"`
}

// Series groups the points of one booster version category.
type Series struct {
	Name   string  `json:"name" yaml:"name"`
	Points []Point `json:"points" yaml:"points"`
}

// CorrelationView holds one point per launch inside the payload range.
type CorrelationView struct {
	Site   model.SiteSelector `json:"site" yaml:"site"`
	Range  model.MassRange    `json:"payload_range" yaml:"payload_range"`
	Points []Point            `json:"points" yaml:"points"`
}

// BuildCorrelation emits a point for every record matching site and range.
func BuildCorrelation(records []model.Launch, site model.SiteSelector, r model.MassRange) CorrelationView {
	points := lo.Map(query.Filter(records, site, r), func(l model.Launch, _ int) Point {
		return Point{PayloadMassKG: l.PayloadMassKG, Outcome: l.Outcome, BoosterCategory: l.BoosterCategory}
	})
	return CorrelationView{Site: site, Range: r, Points: points}
}

// Series splits the points by booster category, in order of first appearance.
func (v CorrelationView) Series() []Series {
	groups := lo.GroupBy(v.Points, func(p Point) string { return p.BoosterCategory })
	names := lo.Uniq(lo.Map(v.Points, func(p Point, _ int) string { return p.BoosterCategory }))

	return lo.Map(names, func(name string, _ int) Series {
		return Series{Name: name, Points: groups[name]}
	})
}
