package view

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sells-group/launch-dashboard/internal/model"
)

// Kind is the chart type a figure is drawn as.
type Kind string

const (
	KindPie     Kind = "pie"
	KindScatter Kind = "scatter"
)

// Axis labels of the scatter chart; they are the dataset column names.
const (
	PayloadAxis = "Payload Mass (kg)"
	OutcomeAxis = "class"
)

// Figure is a renderer-neutral chart description.
type Figure struct {
	ID       ID       `json:"id" yaml:"id"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Title    string   `json:"title" yaml:"title"`
	Subtitle string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	XAxis    string   `json:"x_axis,omitempty" yaml:"x_axis,omitempty"`
	YAxis    string   `json:"y_axis,omitempty" yaml:"y_axis,omitempty"`
	Slices   []Slice  `json:"slices,omitempty" yaml:"slices,omitempty"`
	Series   []Series `json:"series,omitempty" yaml:"series,omitempty"`
}

// Empty reports whether the figure has nothing to draw.
func (f Figure) Empty() bool {
	switch f.Kind {
	case KindPie:
		for _, s := range f.Slices {
			if s.Weight > 0 {
				return false
			}
		}
		return true
	default:
		for _, s := range f.Series {
			if len(s.Points) > 0 {
				return false
			}
		}
		return true
	}
}

// ProportionTitle is the pie chart title for a site selector.
func ProportionTitle(site model.SiteSelector) string {
	if site.IsAll() {
		return "Total success launches by site"
	}
	return fmt.Sprintf("Total success launches for site %s", site)
}

// CorrelationTitle is the scatter chart title for a site selector.
func CorrelationTitle(site model.SiteSelector) string {
	if site.IsAll() {
		return "Correlation between Payload and Success for all sites"
	}
	return fmt.Sprintf("Correlation between Payload and Success for %s", site)
}

var printer = message.NewPrinter(language.English)

// RangeLabel formats a payload range for display with thousands separators.
func RangeLabel(r model.MassRange) string {
	return printer.Sprintf("Payload range %v – %v kg",
		number.Decimal(r.Low, number.MaxFractionDigits(0)),
		number.Decimal(r.High, number.MaxFractionDigits(0)),
	)
}

// ProportionFigure describes the pie chart for v.
func ProportionFigure(v ProportionView) Figure {
	return Figure{
		ID:     Proportion,
		Kind:   KindPie,
		Title:  ProportionTitle(v.Site),
		Slices: v.Slices,
	}
}

// CorrelationFigure describes the scatter chart for v.
func CorrelationFigure(v CorrelationView) Figure {
	return Figure{
		ID:       Correlation,
		Kind:     KindScatter,
		Title:    CorrelationTitle(v.Site),
		Subtitle: RangeLabel(v.Range),
		XAxis:    PayloadAxis,
		YAxis:    OutcomeAxis,
		Series:   v.Series(),
	}
}
