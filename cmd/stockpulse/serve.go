package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/server"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd(cfgPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP and websockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			consoleLogger(cfg.Log.Level)
			if addr == "" {
				addr = cfg.Server.Addr
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			srv := server.New(server.Deps{
				Collector: a.collector,
				Desk:      a.desk,
				Book:      a.book,
				Session:   a.session,
				Chart: server.ChartConfig{
					Width:         cfg.Chart.Width,
					MinHeight:     cfg.Chart.MinHeight,
					TooltipOffset: cfg.Chart.TooltipOffset,
				},
				Dark: cfg.UI.Dark,
			})
			a.session.OnChange(srv.Broadcast)
			if err := a.start(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Msg("StockPulse is running. Press Ctrl+C to stop.")
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
