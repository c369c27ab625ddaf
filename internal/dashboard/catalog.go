package dashboard

import (
	"github.com/samber/lo"

	"github.com/sells-group/launch-dashboard/internal/dataset"
	"github.com/sells-group/launch-dashboard/internal/model"
)

// AllSitesLabel is the dropdown label of the AllSites selector.
const AllSitesLabel = "All Sites"

// DefaultSiteLabels are the dropdown labels of the SpaceX launch sites.
var DefaultSiteLabels = []model.Site{
	{Value: "CCAFS LC-40", Label: "CCAFS LC"},
	{Value: "VAFB SLC-4E", Label: "VAFB"},
	{Value: "KSC LC-39A", Label: "KSC"},
	{Value: "CCAFS SLC-40", Label: "CCAFS SLC"},
}

// Slider bounds the payload range control.
type Slider struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`
}

// Range returns the slider's full extent, the default payload range.
func (s Slider) Range() model.MassRange {
	return model.MassRange{Low: s.Min, High: s.Max}
}

// Allows reports whether r lies within the slider and is ordered.
func (s Slider) Allows(r model.MassRange) bool {
	return r.Low <= r.High && r.Low >= s.Min && r.High <= s.Max
}

// SiteOptions lists the dropdown entries: AllSites first, then every table
// site in order of first appearance. Sites without a configured label use
// their value as label.
func SiteOptions(table *dataset.Table, labels []model.Site) []model.Site {
	byValue := lo.SliceToMap(labels, func(s model.Site) (string, string) { return s.Value, s.Label })

	opts := []model.Site{{Value: string(model.AllSites), Label: AllSitesLabel}}
	for _, site := range table.Sites() {
		label, ok := byValue[site]
		if !ok || label == "" {
			label = site
		}
		opts = append(opts, model.Site{Value: site, Label: label})
	}
	return opts
}

// SiteSummary counts the launches at one site.
type SiteSummary struct {
	model.Site `yaml:",inline"`
	Launches   int `json:"launches" yaml:"launches"`
	Successes  int `json:"successes" yaml:"successes"`
}

// Summary describes the loaded dataset and the controls built on it.
type Summary struct {
	Records      int           `json:"records" yaml:"records"`
	Successes    int           `json:"successes" yaml:"successes"`
	PayloadMinKG float64       `json:"payload_min_kg" yaml:"payload_min_kg"`
	PayloadMaxKG float64       `json:"payload_max_kg" yaml:"payload_max_kg"`
	Sites        []SiteSummary `json:"sites" yaml:"sites"`
	Slider       Slider        `json:"slider" yaml:"slider"`
}

// Summarize builds the dataset summary.
func Summarize(table *dataset.Table, labels []model.Site, slider Slider) Summary {
	records := table.Records()
	bySite := lo.GroupBy(records, func(l model.Launch) string { return l.Site })

	sites := lo.FilterMap(SiteOptions(table, labels), func(s model.Site, _ int) (SiteSummary, bool) {
		if model.SiteSelector(s.Value).IsAll() {
			return SiteSummary{}, false
		}
		launches := bySite[s.Value]
		return SiteSummary{
			Site:      s,
			Launches:  len(launches),
			Successes: lo.CountBy(launches, func(l model.Launch) bool { return l.Succeeded() }),
		}, true
	})

	minMass, maxMass := table.PayloadBounds()
	return Summary{
		Records:      table.Len(),
		Successes:    lo.CountBy(records, func(l model.Launch) bool { return l.Succeeded() }),
		PayloadMinKG: minMass,
		PayloadMaxKG: maxMass,
		Sites:        sites,
		Slider:       slider,
	}
}
