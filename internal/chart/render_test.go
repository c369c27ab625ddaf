package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/launch-dashboard/internal/model"
	"github.com/sells-group/launch-dashboard/internal/view"
)

func records() []model.Launch {
	return []model.Launch{
		{Site: "CCAFS LC-40", PayloadMassKG: 525, Outcome: 0, BoosterCategory: "v1.0"},
		{Site: "KSC LC-39A", PayloadMassKG: 2490, Outcome: 1, BoosterCategory: "FT"},
		{Site: "CCAFS LC-40", PayloadMassKG: 3136, Outcome: 1, BoosterCategory: "FT"},
		{Site: "VAFB SLC-4E", PayloadMassKG: 9600, Outcome: 0, BoosterCategory: "v1.1"},
	}
}

func decodeSize(t *testing.T, buf *bytes.Buffer) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(buf)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestNewRenderer_Defaults(t *testing.T) {
	r := NewRenderer(0, -1)
	assert.Equal(t, DefaultWidth, r.Width)
	assert.Equal(t, DefaultHeight, r.Height)

	r = NewRenderer(640, 480)
	assert.Equal(t, 640, r.Width)
	assert.Equal(t, 480, r.Height)
}

func TestRender_Pie(t *testing.T) {
	fig := view.ProportionFigure(view.BuildProportion(records(), model.AllSites))

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(640, 400).Render(&buf, fig))

	w, h := decodeSize(t, &buf)
	assert.Equal(t, 640, w)
	assert.Equal(t, 400, h)
}

func TestRender_Scatter(t *testing.T) {
	fig := view.CorrelationFigure(view.BuildCorrelation(records(), model.AllSites, model.MassRange{Low: 0, High: 10000}))

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(800, 450).Render(&buf, fig))

	w, h := decodeSize(t, &buf)
	assert.Equal(t, 800, w)
	assert.Equal(t, 450, h)
}

func TestRender_ScatterSinglePoint(t *testing.T) {
	fig := view.CorrelationFigure(view.BuildCorrelation(records(), "KSC LC-39A", model.MassRange{Low: 0, High: 10000}))

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(0, 0).Render(&buf, fig))
	assert.NotZero(t, buf.Len())
}

func TestRender_EmptyFigureIsBlank(t *testing.T) {
	fig := view.CorrelationFigure(view.BuildCorrelation(records(), "Boca Chica", model.MassRange{Low: 0, High: 10000}))

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(300, 200).Render(&buf, fig))

	w, h := decodeSize(t, &buf)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)
}

func TestRender_UnknownKind(t *testing.T) {
	fig := view.Figure{Kind: "bar", Slices: []view.Slice{{Label: "x", Weight: 1}}}

	var buf bytes.Buffer
	err := NewRenderer(0, 0).Render(&buf, fig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported figure kind")
}
