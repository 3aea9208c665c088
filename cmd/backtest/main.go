package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/moznion/go-optional"
	"github.com/papertrade-lab/stratler/internal/backtest"
	"github.com/papertrade-lab/stratler/internal/backtest/commission"
	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/market"
	"github.com/papertrade-lab/stratler/internal/strategy"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	l, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	params := map[string]any{}
	if raw := cmd.String("params"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return fmt.Errorf("failed to parse --params: %w", err)
		}
	}

	strat, err := strategy.New(cmd.String("strategy"), params)
	if err != nil {
		return err
	}

	bars, err := market.LoadBarsFromCSV(cmd.String("csv"))
	if err != nil {
		return err
	}

	engine := backtest.NewEngine(strat,
		cmd.Float("initial-capital"),
		commission.NewRateCommission(cmd.Float("commission")),
		l)

	bar := progressbar.Default(int64(len(bars)), "backtesting")
	onBar := backtest.OnBarCallback(func(current, total int) {
		_ = bar.Set(current)
	})

	result, err := engine.Run(bars, optional.Some(onBar))
	if err != nil {
		return err
	}

	_ = bar.Finish()

	fmt.Printf("\nStrategy:        %s\n", result.StrategyName)
	fmt.Printf("Initial capital: %.2f\n", result.InitialCapital)
	fmt.Printf("Final value:     %.2f\n", result.FinalPortfolioValue)
	fmt.Printf("Total return:    %.2f (%.2f%%)\n", result.TotalReturn, result.TotalReturnPercent)
	fmt.Printf("Trades:          %d (W %d / L %d, win rate %.1f%%)\n",
		result.TotalTrades, result.WinningTrades, result.LosingTrades, result.WinRate)
	fmt.Printf("Sharpe ratio:    %.3f\n", result.SharpeRatio)
	fmt.Printf("Max drawdown:    %.2f%%\n", result.MaxDrawdown)

	if output := cmd.String("output"); output != "" {
		if err := types.WriteBacktestResult(output, result); err != nil {
			return err
		}

		fmt.Printf("Result written to %s\n", output)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a strategy backtest over a CSV file of OHLCV bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "csv",
				Usage:    "Path to the OHLCV CSV file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Strategy name (MA_CROSSOVER, RSI, BOLLINGER_BANDS)",
				Value:   strategy.NameMACrossover,
			},
			&cli.StringFlag{
				Name:  "params",
				Usage: "Strategy parameters as a JSON object",
			},
			&cli.FloatFlag{
				Name:  "initial-capital",
				Usage: "Starting cash",
				Value: 100000,
			},
			&cli.FloatFlag{
				Name:  "commission",
				Usage: "Commission rate per fill",
				Value: 0.001,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the full result to a YAML file",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
