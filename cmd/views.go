package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/launch-dashboard/internal/dashboard"
	"github.com/sells-group/launch-dashboard/internal/model"
	"github.com/sells-group/launch-dashboard/internal/view"
)

var (
	viewsSite   string
	viewsLow    float64
	viewsHigh   float64
	viewsFormat string
)

type viewsOutput struct {
	Controls dashboard.Controls `json:"controls" yaml:"controls"`
	Figures  []view.Figure      `json:"figures" yaml:"figures"`
}

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Print the chart descriptions for a site and payload range",
	RunE: func(cmd *cobra.Command, _ []string) error {
		controls, err := controlsFromFlags(cmd)
		if err != nil {
			return err
		}
		if viewsFormat != "json" && viewsFormat != "yaml" {
			return eris.Errorf("unknown format %q (want json or yaml)", viewsFormat)
		}

		table, err := loadTable(cmd.Context(), cfg, "views")
		if err != nil {
			return err
		}

		d := dashboard.NewDispatcher(dashboard.NewBuilder(table, nil), controls)
		return writeViews(cmd.OutOrStdout(), viewsFormat, viewsOutput{
			Controls: d.Controls(),
			Figures:  d.Figures(),
		})
	},
}

// controlsFromFlags reads --site, --low and --high. Unset bounds default to the slider extent.
func controlsFromFlags(cmd *cobra.Command) (dashboard.Controls, error) {
	rng := slider(cfg).Range()
	if cmd.Flags().Changed("low") {
		rng.Low = viewsLow
	}
	if cmd.Flags().Changed("high") {
		rng.High = viewsHigh
	}
	if rng.Low > rng.High {
		return dashboard.Controls{}, eris.Errorf("--low %v exceeds --high %v", rng.Low, rng.High)
	}
	return dashboard.Controls{Site: model.SiteSelector(viewsSite), Range: rng}, nil
}

func writeViews(w io.Writer, format string, out viewsOutput) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return eris.Wrap(err, "encode json")
	}
	return nil
}

func registerControlFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&viewsSite, "site", string(model.AllSites), "launch site, or ALL")
	cmd.Flags().Float64Var(&viewsLow, "low", 0, "lower payload bound in kg, exclusive (default slider minimum)")
	cmd.Flags().Float64Var(&viewsHigh, "high", 0, "upper payload bound in kg, exclusive (default slider maximum)")
}

func init() {
	registerControlFlags(viewsCmd)
	viewsCmd.Flags().StringVar(&viewsFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(viewsCmd)
}
