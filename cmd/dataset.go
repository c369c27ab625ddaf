package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/launch-dashboard/internal/chart"
	"github.com/sells-group/launch-dashboard/internal/config"
	"github.com/sells-group/launch-dashboard/internal/dashboard"
	"github.com/sells-group/launch-dashboard/internal/dataset"
	"github.com/sells-group/launch-dashboard/internal/model"
)

// loadTable validates the config for command and loads the configured dataset.
func loadTable(ctx context.Context, c *config.Config, command string) (*dataset.Table, error) {
	if err := c.Validate(command); err != nil {
		return nil, err
	}

	table, err := dataset.Load(ctx, dataset.Source{
		Path:   c.Dataset.Path,
		Format: dataset.Format(c.Dataset.Format),
		Sheet:  c.Dataset.Sheet,
	})
	if err != nil {
		return nil, eris.Wrap(err, "load dataset")
	}
	return table, nil
}

// siteLabels returns the configured dropdown labels, falling back to the SpaceX defaults.
func siteLabels(c *config.Config) []model.Site {
	if len(c.Dashboard.Sites) == 0 {
		return dashboard.DefaultSiteLabels
	}
	return c.Dashboard.Sites
}

func slider(c *config.Config) dashboard.Slider {
	return dashboard.Slider{
		Min:  c.Dashboard.RangeMin,
		Max:  c.Dashboard.RangeMax,
		Step: c.Dashboard.RangeStep,
	}
}

func renderer(c *config.Config) chart.Renderer {
	return chart.NewRenderer(c.Chart.Width, c.Chart.Height)
}
