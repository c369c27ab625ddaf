package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/launch-dashboard/internal/chart"
	"github.com/sells-group/launch-dashboard/internal/dashboard"
	"github.com/sells-group/launch-dashboard/internal/view"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render both charts to PNG files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		controls, err := controlsFromFlags(cmd)
		if err != nil {
			return err
		}

		table, err := loadTable(cmd.Context(), cfg, "render")
		if err != nil {
			return err
		}

		if err := os.MkdirAll(renderOut, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", renderOut)
		}

		d := dashboard.NewDispatcher(dashboard.NewBuilder(table, nil), controls)
		r := renderer(cfg)
		for _, fig := range d.Figures() {
			path := filepath.Join(renderOut, string(fig.ID)+".png")
			if err := renderFile(r, fig, path); err != nil {
				return err
			}
			zap.L().Info("chart rendered",
				zap.String("view", string(fig.ID)),
				zap.String("path", path),
				zap.Bool("empty", fig.Empty()),
			)
		}
		return nil
	},
}

func renderFile(r chart.Renderer, fig view.Figure, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "close %s", path)
		}
	}()

	if err := r.Render(f, fig); err != nil {
		return eris.Wrapf(err, "render %s", fig.ID)
	}
	return nil
}

func init() {
	registerControlFlags(renderCmd)
	renderCmd.Flags().StringVar(&renderOut, "out", ".", "output directory")
	rootCmd.AddCommand(renderCmd)
}
