// Command stockpulse is a mock stock trading dashboard with a terminal UI
// and an HTTP/websocket front end over synthetic market data.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"StockPulse/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "stockpulse",
		Short:         "Mock stock trading dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	def := defaultConfigPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", def, "Path to config file (env CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd(&cfgPath))
	rootCmd.AddCommand(tuiCmd(&cfgPath))
	rootCmd.AddCommand(candlesCmd(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the config at path.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger points the global logger at w with the configured level.
func setupLogger(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func consoleLogger(level string) {
	setupLogger(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
