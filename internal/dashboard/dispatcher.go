// Package dashboard binds control changes to view recomputation.
//
// A Dispatcher owns the current control values of one dashboard. Each event
// carries a new control value; the dispatcher recomputes only the views that
// depend on the changed control and publishes the new figures to its sinks.
package dashboard

import (
	"slices"
	"sync"
	"time"

	"github.com/sells-group/launch-dashboard/internal/dataset"
	"github.com/sells-group/launch-dashboard/internal/model"
	"github.com/sells-group/launch-dashboard/internal/monitoring"
	"github.com/sells-group/launch-dashboard/internal/view"
)

// Controls are the values of the two dashboard controls.
type Controls struct {
	Site  model.SiteSelector `json:"site" yaml:"site"`
	Range model.MassRange    `json:"payload_range" yaml:"payload_range"`
}

// Event is a control value change.
type Event interface {
	// apply stores the new value and reports whether it differs from the old one.
	apply(c *Controls) bool
	// Views lists the views that depend on the changed control.
	Views() []view.ID
}

// SiteChanged sets the site selector. Both charts depend on it.
type SiteChanged struct {
	Site model.SiteSelector
}

func (e SiteChanged) apply(c *Controls) bool {
	if c.Site == e.Site {
		return false
	}
	c.Site = e.Site
	return true
}

func (e SiteChanged) Views() []view.ID {
	return []view.ID{view.Proportion, view.Correlation}
}

// RangeChanged sets the payload range. Only the scatter chart depends on it.
type RangeChanged struct {
	Range model.MassRange
}

func (e RangeChanged) apply(c *Controls) bool {
	if c.Range == e.Range {
		return false
	}
	c.Range = e.Range
	return true
}

func (e RangeChanged) Views() []view.ID {
	return []view.ID{view.Correlation}
}

// Sink receives figures after they are recomputed.
type Sink interface {
	Publish(fig view.Figure)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(fig view.Figure)

func (f SinkFunc) Publish(fig view.Figure) { f(fig) }

// Builder computes figures over the immutable launch table.
type Builder struct {
	records []model.Launch
	metrics *monitoring.Collector
}

// NewBuilder creates a builder for table. metrics may be nil.
func NewBuilder(table *dataset.Table, metrics *monitoring.Collector) *Builder {
	return &Builder{records: table.Records(), metrics: metrics}
}

// Build computes one view for the given controls.
func (b *Builder) Build(id view.ID, c Controls) view.Figure {
	start := time.Now()

	var fig view.Figure
	switch id {
	case view.Proportion:
		fig = view.ProportionFigure(view.BuildProportion(b.records, c.Site))
	case view.Correlation:
		fig = view.CorrelationFigure(view.BuildCorrelation(b.records, c.Site, c.Range))
	default:
		return view.Figure{ID: id}
	}

	b.metrics.ObserveView(string(id), time.Since(start), fig.Empty())
	return fig
}

// Dispatcher serializes control changes for one dashboard.
type Dispatcher struct {
	mu       sync.Mutex
	builder  *Builder
	controls Controls
	figures  map[view.ID]view.Figure
	sinks    []Sink
}

// NewDispatcher computes every view for the initial controls.
func NewDispatcher(builder *Builder, initial Controls) *Dispatcher {
	d := &Dispatcher{
		builder:  builder,
		controls: initial,
		figures:  make(map[view.ID]view.Figure, len(view.IDs)),
	}
	for _, id := range view.IDs {
		d.figures[id] = builder.Build(id, initial)
	}
	return d
}

// Subscribe registers a sink for future recomputations.
func (d *Dispatcher) Subscribe(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

// Dispatch applies events in order and returns the recomputed figures in
// display order. Events that do not change a control recompute nothing.
func (d *Dispatcher) Dispatch(events ...Event) []view.Figure {
	d.mu.Lock()
	defer d.mu.Unlock()

	var dirty []view.ID
	for _, ev := range events {
		if ev.apply(&d.controls) {
			dirty = append(dirty, ev.Views()...)
		}
	}

	var updated []view.Figure
	for _, id := range view.IDs {
		if !slices.Contains(dirty, id) {
			continue
		}
		fig := d.builder.Build(id, d.controls)
		d.figures[id] = fig
		updated = append(updated, fig)
	}

	for _, fig := range updated {
		for _, s := range d.sinks {
			s.Publish(fig)
		}
	}
	return updated
}

// Controls returns the current control values.
func (d *Dispatcher) Controls() Controls {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.controls
}

// Figures returns the latest figure of every view in display order.
func (d *Dispatcher) Figures() []view.Figure {
	d.mu.Lock()
	defer d.mu.Unlock()

	figs := make([]view.Figure, 0, len(view.IDs))
	for _, id := range view.IDs {
		figs = append(figs, d.figures[id])
	}
	return figs
}
