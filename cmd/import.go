package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/launch-dashboard/internal/dataset"
)

var importSQLitePath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the configured dataset into a SQLite database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if importSQLitePath == "" {
			return eris.New("sqlite path is required (--sqlite)")
		}

		table, err := loadTable(ctx, cfg, "import")
		if err != nil {
			return err
		}

		store, err := dataset.NewSQLite(importSQLitePath)
		if err != nil {
			return eris.Wrap(err, "open sqlite")
		}
		defer store.Close() //nolint:errcheck

		if err := store.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate sqlite")
		}
		if err := store.ReplaceLaunches(ctx, table.Records()); err != nil {
			return eris.Wrap(err, "import launches")
		}

		zap.L().Info("import complete",
			zap.Int("records", table.Len()),
			zap.String("source", cfg.Dataset.Path),
			zap.String("sqlite", importSQLitePath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSQLitePath, "sqlite", "", "path to SQLite database (required)")
	_ = importCmd.MarkFlagRequired("sqlite")
	rootCmd.AddCommand(importCmd)
}
