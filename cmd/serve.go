package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/launch-dashboard/internal/dashboard"
	"github.com/sells-group/launch-dashboard/internal/model"
	"github.com/sells-group/launch-dashboard/internal/monitoring"
	"github.com/sells-group/launch-dashboard/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		table, err := loadTable(ctx, cfg, "serve")
		if err != nil {
			return err
		}

		metrics := monitoring.NewCollector()
		metrics.SetDatasetRecords(table.Len())

		sl := slider(cfg)
		builder := dashboard.NewBuilder(table, metrics)
		sessions := dashboard.NewSessions(builder,
			dashboard.Controls{Site: model.AllSites, Range: sl.Range()},
			time.Duration(cfg.Server.SessionTTLMinutes)*time.Minute,
			metrics,
		)

		srv := server.New(table, builder, sessions, renderer(cfg), metrics, server.Options{
			Sites:          siteLabels(cfg),
			Slider:         sl,
			RenderRate:     cfg.Server.RenderRate,
			RenderBurst:    cfg.Server.RenderBurst,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx, cfg.Server.Port)
		})
		if cfg.Server.MetricsPort != 0 {
			g.Go(func() error {
				return monitoring.NewServer(cfg.Server.MetricsPort, metrics).Run(gctx)
			})
		} else {
			zap.L().Info("metrics listener disabled")
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
