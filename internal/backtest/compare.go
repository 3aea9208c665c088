package backtest

import (
	"sync"

	"github.com/moznion/go-optional"
	"github.com/papertrade-lab/stratler/internal/backtest/commission"
	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/strategy"
	"github.com/papertrade-lab/stratler/internal/types"
)

// ComparisonEntry is one strategy's outcome within a comparison run.
// Err is set when that strategy's run failed; the other entries are
// unaffected.
type ComparisonEntry struct {
	StrategyName string               `json:"strategy_name" yaml:"strategy_name"`
	Result       types.BacktestResult `json:"result" yaml:"result"`
	Err          error                `json:"-" yaml:"-"`
}

// Compare runs several strategies against the same bar sequence, each
// with its own engine and account. Runs are independent so they execute
// concurrently; the returned slice preserves the input order.
func Compare(strategies []strategy.Strategy, bars []types.Bar, initialCapital float64, comm commission.Commission, log *logger.Logger) []ComparisonEntry {
	entries := make([]ComparisonEntry, len(strategies))

	var wg sync.WaitGroup

	for i, strat := range strategies {
		wg.Add(1)

		go func(i int, strat strategy.Strategy) {
			defer wg.Done()

			engine := NewEngine(strat, initialCapital, comm, log)
			result, err := engine.Run(bars, optional.None[OnBarCallback]())

			entries[i] = ComparisonEntry{
				StrategyName: strat.Name(),
				Result:       result,
				Err:          err,
			}
		}(i, strat)
	}

	wg.Wait()

	return entries
}
