package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/backtest"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/services"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/utils"
)

type RunArgs struct {
	Symbol       string
	BarsCsv      string
	StrategyFile string
	Capital      float64
	LookbackDays int
}

var runCmd = &cobra.Command{
	Use:   "backtester",
	Short: "Backtest a strategy over a CSV bar series",
	Run: func(cmd *cobra.Command, args []string) {
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			log.Fatalf("error getting symbol: %v", err)
		}

		barsCsv, err := cmd.Flags().GetString("bars")
		if err != nil {
			log.Fatalf("error getting bars: %v", err)
		}

		strategyFile, err := cmd.Flags().GetString("strategy")
		if err != nil {
			log.Fatalf("error getting strategy: %v", err)
		}

		capital, err := cmd.Flags().GetFloat64("capital")
		if err != nil {
			log.Fatalf("error getting capital: %v", err)
		}

		lookbackDays, err := cmd.Flags().GetInt("lookback")
		if err != nil {
			log.Fatalf("error getting lookback: %v", err)
		}

		if err := Run(RunArgs{
			Symbol:       symbol,
			BarsCsv:      barsCsv,
			StrategyFile: strategyFile,
			Capital:      capital,
			LookbackDays: lookbackDays,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	ctx := context.Background()

	var bars []models.Bar
	var err error

	if args.BarsCsv != "" {
		bars, err = utils.ImportBarsFromCsv(args.BarsCsv)
		if err != nil {
			return fmt.Errorf("failed to load bars: %w", err)
		}

		log.Infof("Loaded %d bars from %s", len(bars), args.BarsCsv)
	} else {
		apiKey := os.Getenv("POLYGON_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("either --bars or the POLYGON_API_KEY environment variable must be set")
		}

		provider := services.NewPolygonQuoteProvider(apiKey)
		bars, err = provider.GetBarSeries(ctx, args.Symbol, args.LookbackDays)
		if err != nil {
			return fmt.Errorf("failed to fetch bars for %s: %w", args.Symbol, err)
		}

		log.Infof("Fetched %d daily bars for %s", len(bars), args.Symbol)
	}

	raw, err := os.ReadFile(args.StrategyFile)
	if err != nil {
		return fmt.Errorf("failed to read strategy file: %w", err)
	}

	var strategy models.Strategy
	if err := json.Unmarshal(raw, &strategy); err != nil {
		return fmt.Errorf("failed to parse strategy file: %w", err)
	}

	result, err := backtest.NewSimulator().Run(ctx, args.Symbol, strategy, bars, decimal.NewFromFloat(args.Capital))
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	printTrades(result.Trades)
	printSummary(result.Summary)

	return nil
}

func printTrades(trades []models.BacktestTrade) {
	if len(trades) == 0 {
		fmt.Println("No trades taken.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Entry", "Exit", "Qty", "Entry Px", "Exit Px", "P/L", "P/L %", "Reason"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, trade := range trades {
		table.Append([]string{
			trade.EntryTime.Format("2006-01-02"),
			trade.ExitTime.Format("2006-01-02"),
			fmt.Sprintf("%d", trade.Quantity),
			fmt.Sprintf("%.2f", trade.EntryPrice),
			fmt.Sprintf("%.2f", trade.ExitPrice),
			trade.Profit.StringFixed(2),
			fmt.Sprintf("%.2f%%", trade.ProfitPercent),
			string(trade.Reason),
		})
	}

	table.Render()
}

func printSummary(summary models.BacktestSummary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Total trades", fmt.Sprintf("%d", summary.TotalTrades)})
	table.Append([]string{"Winning trades", fmt.Sprintf("%d", summary.WinningTrades)})
	table.Append([]string{"Losing trades", fmt.Sprintf("%d", summary.LosingTrades)})
	table.Append([]string{"Win rate", fmt.Sprintf("%.2f%%", summary.WinRate)})
	table.Append([]string{"Total return", fmt.Sprintf("%.2f%%", summary.TotalReturn)})
	table.Append([]string{"Avg win", fmt.Sprintf("%.2f", summary.AvgWin)})
	table.Append([]string{"Avg loss", fmt.Sprintf("%.2f", summary.AvgLoss)})
	table.Append([]string{"Profit factor", fmt.Sprintf("%.2f", summary.ProfitFactor)})
	table.Append([]string{"Starting capital", summary.StartingCapital.StringFixed(2)})
	table.Append([]string{"Final capital", summary.FinalCapital.StringFixed(2)})

	table.Render()
}

func main() {
	runCmd.Flags().String("symbol", "", "Ticker symbol the bars belong to")
	runCmd.Flags().String("bars", "", "Path to a CSV file of daily OHLCV bars (fetched from polygon when omitted)")
	runCmd.Flags().String("strategy", "", "Path to a JSON strategy definition")
	runCmd.Flags().Float64("capital", 10000, "Starting capital for the run")
	runCmd.Flags().Int("lookback", backtest.DefaultLookbackDays, "Days of history to fetch when no CSV is given")

	runCmd.MarkFlagRequired("symbol")
	runCmd.MarkFlagRequired("strategy")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("failed to run command: %v", err)
	}
}
