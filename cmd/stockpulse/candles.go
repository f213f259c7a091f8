package main

import (
	"fmt"
	"os"
	"strconv"

	"StockPulse/internal/market"
	"StockPulse/internal/notifier"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func candlesCmd(cfgPath *string) *cobra.Command {
	var (
		days int
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "candles SYMBOL",
		Short: "Print a generated daily series as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			consoleLogger(cfg.Log.Level)

			if !cmd.Flags().Changed("days") {
				days = cfg.Generator.Days
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Generator.Seed
			}

			col := market.NewCollector(market.NewMockFetcher(market.NewSeededGenerator(seed)), days)
			snap, err := col.Collect(args[0])
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Date", "Open", "High", "Low", "Close", "Volume"})
			for _, c := range snap.Series {
				table.Append([]string{
					c.Date.Format("2006-01-02"),
					strconv.FormatFloat(c.Open, 'f', 2, 64),
					strconv.FormatFloat(c.High, 'f', 2, 64),
					strconv.FormatFloat(c.Low, 'f', 2, 64),
					strconv.FormatFloat(c.Close, 'f', 2, 64),
					notifier.Millions(c.Volume, 2),
				})
			}
			table.Render()

			ind := snap.Indicators
			fmt.Printf("%s  %s  high %s  low %s  SMA20 %s  RSI14 %.1f\n",
				snap.Stock.Symbol, snap.Stock.Name,
				notifier.Money(ind.PeriodHigh), notifier.Money(ind.PeriodLow), notifier.Money(ind.SMA20), ind.RSI14)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", market.DefaultDays, "Number of days to generate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time based)")
	return cmd
}
