package dashboard

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/launch-dashboard/internal/dataset"
	"github.com/sells-group/launch-dashboard/internal/model"
	"github.com/sells-group/launch-dashboard/internal/monitoring"
	"github.com/sells-group/launch-dashboard/internal/view"
)

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable([]model.Launch{
		{Site: "CCAFS LC-40", PayloadMassKG: 500, Outcome: 0, BoosterCategory: "v1.0"},
		{Site: "CCAFS LC-40", PayloadMassKG: 2000, Outcome: 1, BoosterCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMassKG: 5300, Outcome: 1, BoosterCategory: "FT"},
		{Site: "VAFB SLC-4E", PayloadMassKG: 9600, Outcome: 0, BoosterCategory: "v1.1"},
		{Site: "CCAFS LC-40", PayloadMassKG: 15600, Outcome: 1, BoosterCategory: "B5"},
	})
	require.NoError(t, err)
	return table
}

var defaults = Controls{Site: model.AllSites, Range: model.MassRange{Low: 0, High: 10000}}

func figureIDs(figs []view.Figure) []view.ID {
	ids := make([]view.ID, 0, len(figs))
	for _, f := range figs {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestNewDispatcher_ComputesEveryView(t *testing.T) {
	d := NewDispatcher(NewBuilder(testTable(t), nil), defaults)

	figs := d.Figures()
	require.Len(t, figs, 2)
	assert.Equal(t, "Total success launches by site", figs[0].Title)
	assert.Equal(t, "Correlation between Payload and Success for all sites", figs[1].Title)
	assert.Equal(t, defaults, d.Controls())
}

func TestDispatch_SiteChangeRecomputesBothViews(t *testing.T) {
	d := NewDispatcher(NewBuilder(testTable(t), nil), defaults)

	updated := d.Dispatch(SiteChanged{Site: "KSC LC-39A"})

	assert.Equal(t, []view.ID{view.Proportion, view.Correlation}, figureIDs(updated))
	assert.Equal(t, "Total success launches for site KSC LC-39A", updated[0].Title)
	assert.Equal(t, []view.Slice{{Label: "0", Weight: 0}, {Label: "1", Weight: 1}}, updated[0].Slices)
	assert.Equal(t, model.SiteSelector("KSC LC-39A"), d.Controls().Site)
}

func TestDispatch_RangeChangeRecomputesOnlyCorrelation(t *testing.T) {
	d := NewDispatcher(NewBuilder(testTable(t), nil), defaults)
	before := d.Figures()[0]

	updated := d.Dispatch(RangeChanged{Range: model.MassRange{Low: 1000, High: 6000}})

	assert.Equal(t, []view.ID{view.Correlation}, figureIDs(updated))
	assert.Equal(t, before, d.Figures()[0])

	var points int
	for _, s := range updated[0].Series {
		points += len(s.Points)
	}
	assert.Equal(t, 2, points)
}

func TestDispatch_UnchangedValueIsNoop(t *testing.T) {
	d := NewDispatcher(NewBuilder(testTable(t), nil), defaults)

	assert.Empty(t, d.Dispatch(SiteChanged{Site: model.AllSites}))
	assert.Empty(t, d.Dispatch(RangeChanged{Range: defaults.Range}))
}

func TestDispatch_MultipleEventsDeduplicateViews(t *testing.T) {
	d := NewDispatcher(NewBuilder(testTable(t), nil), defaults)

	updated := d.Dispatch(
		SiteChanged{Site: "CCAFS LC-40"},
		RangeChanged{Range: model.MassRange{Low: 0, High: 20000}},
	)

	assert.Equal(t, []view.ID{view.Proportion, view.Correlation}, figureIDs(updated))
}

func TestDispatch_PublishesToSinks(t *testing.T) {
	d := NewDispatcher(NewBuilder(testTable(t), nil), defaults)

	var published []view.ID
	d.Subscribe(SinkFunc(func(fig view.Figure) { published = append(published, fig.ID) }))

	d.Dispatch(RangeChanged{Range: model.MassRange{Low: 100, High: 200}})
	d.Dispatch(SiteChanged{Site: "VAFB SLC-4E"})

	assert.Equal(t, []view.ID{view.Correlation, view.Proportion, view.Correlation}, published)
}

func TestDispatch_UnknownSiteRendersEmpty(t *testing.T) {
	d := NewDispatcher(NewBuilder(testTable(t), nil), defaults)

	for _, fig := range d.Dispatch(SiteChanged{Site: "Boca Chica"}) {
		assert.True(t, fig.Empty(), fig.ID)
	}
}

func TestBuilder_UnknownViewAndMetrics(t *testing.T) {
	metrics := monitoring.NewCollector()
	b := NewBuilder(testTable(t), metrics)

	fig := b.Build("histogram", defaults)
	assert.Equal(t, view.ID("histogram"), fig.ID)
	assert.True(t, fig.Empty())

	b.Build(view.Proportion, defaults)
}

func TestSessions_Lifecycle(t *testing.T) {
	sessions := NewSessions(NewBuilder(testTable(t), nil), defaults, time.Minute, monitoring.NewCollector())

	sess := sessions.Create()
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, 1, sessions.Len())

	got, err := sessions.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	updated, err := sessions.Update(sess.ID, SiteChanged{Site: "KSC LC-39A"})
	require.NoError(t, err)
	assert.Len(t, updated, 2)
	assert.Equal(t, model.SiteSelector("KSC LC-39A"), sess.Controls().Site)

	require.NoError(t, sessions.Close(sess.ID))
	assert.Equal(t, 0, sessions.Len())

	_, err = sessions.Get(sess.ID)
	assert.True(t, eris.Is(err, ErrSessionNotFound))
}

func TestSessions_AreIndependent(t *testing.T) {
	sessions := NewSessions(NewBuilder(testTable(t), nil), defaults, time.Minute, nil)

	a := sessions.Create()
	b := sessions.Create()
	_, err := sessions.Update(a.ID, SiteChanged{Site: "VAFB SLC-4E"})
	require.NoError(t, err)

	assert.Equal(t, model.AllSites, b.Controls().Site)
}

func TestSessions_UnknownID(t *testing.T) {
	sessions := NewSessions(NewBuilder(testTable(t), nil), defaults, time.Minute, nil)

	_, err := sessions.Update("missing", SiteChanged{Site: "KSC LC-39A"})
	assert.True(t, eris.Is(err, ErrSessionNotFound))
	assert.True(t, eris.Is(sessions.Close("missing"), ErrSessionNotFound))
}

func TestSessions_Expire(t *testing.T) {
	sessions := NewSessions(NewBuilder(testTable(t), nil), defaults, 20*time.Millisecond, nil)
	sess := sessions.Create()

	time.Sleep(40 * time.Millisecond)

	_, err := sessions.Get(sess.ID)
	assert.True(t, eris.Is(err, ErrSessionNotFound))
}

func TestSiteOptions(t *testing.T) {
	opts := SiteOptions(testTable(t), DefaultSiteLabels)

	assert.Equal(t, []model.Site{
		{Value: "ALL", Label: "All Sites"},
		{Value: "CCAFS LC-40", Label: "CCAFS LC"},
		{Value: "KSC LC-39A", Label: "KSC"},
		{Value: "VAFB SLC-4E", Label: "VAFB"},
	}, opts)
}

func TestSiteOptions_FallsBackToValue(t *testing.T) {
	opts := SiteOptions(testTable(t), nil)
	assert.Equal(t, model.Site{Value: "KSC LC-39A", Label: "KSC LC-39A"}, opts[2])
}

func TestSummarize(t *testing.T) {
	slider := Slider{Min: 0, Max: 10000, Step: 1000}
	s := Summarize(testTable(t), DefaultSiteLabels, slider)

	assert.Equal(t, 5, s.Records)
	assert.Equal(t, 3, s.Successes)
	assert.InDelta(t, 500, s.PayloadMinKG, 0.001)
	assert.InDelta(t, 15600, s.PayloadMaxKG, 0.001)
	assert.Equal(t, slider, s.Slider)
	require.Len(t, s.Sites, 3)
	assert.Equal(t, "CCAFS LC-40", s.Sites[0].Value)
	assert.Equal(t, 3, s.Sites[0].Launches)
	assert.Equal(t, 2, s.Sites[0].Successes)
}

func TestSlider(t *testing.T) {
	slider := Slider{Min: 0, Max: 10000, Step: 1000}

	assert.Equal(t, model.MassRange{Low: 0, High: 10000}, slider.Range())
	assert.True(t, slider.Allows(model.MassRange{Low: 1000, High: 1000}))
	assert.False(t, slider.Allows(model.MassRange{Low: 5000, High: 1000}))
	assert.False(t, slider.Allows(model.MassRange{Low: -1, High: 1000}))
	assert.False(t, slider.Allows(model.MassRange{Low: 0, High: 10001}))
}
