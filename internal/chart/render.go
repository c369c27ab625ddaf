// Package chart renders dashboard figures to PNG with go-chart.
package chart

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/rotisserie/eris"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sells-group/launch-dashboard/internal/view"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 900
	DefaultHeight = 500
)

// Renderer draws figures at a fixed canvas size.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer, falling back to the default size for non-positive dimensions.
func NewRenderer(width, height int) Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return Renderer{Width: width, Height: height}
}

// Render writes fig as a PNG. Figures without data render as a blank canvas.
func (r Renderer) Render(w io.Writer, fig view.Figure) error {
	if fig.Empty() {
		return eris.Wrap(png.Encode(w, r.blank()), "chart: encode blank")
	}

	switch fig.Kind {
	case view.KindPie:
		return r.renderPie(w, fig)
	case view.KindScatter:
		return r.renderScatter(w, fig)
	default:
		return eris.Errorf("chart: unsupported figure kind %q", fig.Kind)
	}
}

func (r Renderer) renderPie(w io.Writer, fig view.Figure) error {
	values := make([]gochart.Value, 0, len(fig.Slices))
	for _, s := range fig.Slices {
		if s.Weight <= 0 {
			continue
		}
		values = append(values, gochart.Value{Label: s.Label, Value: float64(s.Weight)})
	}

	pie := gochart.PieChart{
		Title:  fig.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	return eris.Wrap(pie.Render(gochart.PNG, w), "chart: render pie")
}

// pointStyle renders points only, without connecting lines.
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func (r Renderer) renderScatter(w io.Writer, fig view.Figure) error {
	xMin, xMax := math.Inf(1), math.Inf(-1)
	series := make([]gochart.Series, 0, len(fig.Series))
	for i, s := range fig.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j] = p.PayloadMassKG
			ys[j] = float64(p.Outcome)
			xMin = math.Min(xMin, p.PayloadMassKG)
			xMax = math.Max(xMax, p.PayloadMassKG)
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(gochart.GetDefaultColor(i)),
		})
	}

	// A single distinct mass gives a zero-width axis, which go-chart rejects.
	if xMax-xMin < 1 {
		xMin, xMax = xMin-500, xMax+500
	}

	ch := gochart.Chart{
		Title:  fig.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 48},
		},
		XAxis: gochart.XAxis{
			Name:  fig.XAxis,
			Range: &gochart.ContinuousRange{Min: math.Max(0, xMin), Max: xMax},
		},
		YAxis: gochart.YAxis{
			Name:  fig.YAxis,
			Range: &gochart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []gochart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	return eris.Wrap(ch.Render(gochart.PNG, w), "chart: render scatter")
}

func (r Renderer) blank() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}
