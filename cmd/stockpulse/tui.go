package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/dashboard"
	"StockPulse/internal/notifier"
	"StockPulse/internal/tui"

	"github.com/spf13/cobra"
)

func tuiCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}

			// The terminal owns stdout and stderr while the UI runs.
			var logOut io.Writer = io.Discard
			if cfg.Log.File != "" {
				f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			setupLogger(cfg.Log.Level, logOut)

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			dash, err := dashboard.New(a.collector, a.desk, notifier.NewToaster(notifier.DefaultTTL, 3), dashboard.Config{
				Geometry:  tui.CellGeometry(80, cfg.UI.ChartRows),
				MinHeight: tui.MinHeight(),
				Dark:      cfg.UI.Dark,
			})
			if err != nil {
				return fmt.Errorf("create dashboard: %w", err)
			}
			m := tui.New(dash, a.desk, a.book, tui.Config{ChartRows: cfg.UI.ChartRows, TradeLimit: cfg.UI.TradeLimit})

			if err := a.start(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, m, a.session)
		},
	}
}
