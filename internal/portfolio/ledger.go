package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/market"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger executes paper trades against per-strategy accounts at live
// prices. Trades for the same strategy are serialized; different
// strategies proceed concurrently.
type Ledger struct {
	store          *Store
	provider       market.Provider
	initialCapital float64
	commissionRate float64
	log            *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedger creates a ledger over the given store and price feed. New
// accounts start with initialCapital in cash; every fill pays
// price*quantity*commissionRate in commission.
func NewLedger(store *Store, provider market.Provider, initialCapital, commissionRate float64, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Ledger{
		store:          store,
		provider:       provider,
		initialCapital: initialCapital,
		commissionRate: commissionRate,
		log:            log,
		locks:          make(map[string]*sync.Mutex),
	}
}

// strategyLock returns the mutex guarding one strategy's account.
func (l *Ledger) strategyLock(strategy string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[strategy]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[strategy] = lock
	}

	return lock
}

// loadOrCreateAccount returns the strategy's account, creating it with
// the starting cash on first reference. Caller must hold the strategy
// lock.
func (l *Ledger) loadOrCreateAccount(strategy string) (types.Account, error) {
	account, exists, err := l.store.GetAccount(strategy)
	if err != nil {
		return types.Account{}, err
	}

	if exists {
		return account, nil
	}

	account = types.Account{
		StrategyName: strategy,
		Cash:         l.initialCapital,
		Positions:    map[string]float64{},
	}

	if err := l.store.CreateAccount(account); err != nil {
		return types.Account{}, err
	}

	l.log.Info("Created account",
		zap.String("strategy", strategy),
		zap.Float64("initial_capital", l.initialCapital),
	)

	return account, nil
}

// ExecuteTrade fills a market order at the current price and updates
// the account. Validation happens before any mutation: a rejected
// trade leaves cash, positions and counters exactly as they were.
func (l *Ledger) ExecuteTrade(ctx context.Context, strategy, symbol string, side types.Side, quantity float64) (types.Trade, error) {
	if quantity <= 0 {
		return types.Trade{}, errors.Newf(errors.ErrCodeInvalidParameter, "quantity must be positive, got %f", quantity)
	}

	if side != types.SideBuy && side != types.SideSell {
		return types.Trade{}, errors.Newf(errors.ErrCodeInvalidParameter, "unknown order side %q", side)
	}

	symbol = market.NormalizeSymbol(symbol)

	lock := l.strategyLock(strategy)
	lock.Lock()
	defer lock.Unlock()

	account, err := l.loadOrCreateAccount(strategy)
	if err != nil {
		return types.Trade{}, err
	}

	quote, err := l.provider.LatestPrice(ctx, symbol)
	if err != nil {
		return types.Trade{}, err
	}

	price := quote.Price
	commission := price * quantity * l.commissionRate
	totalCost := price*quantity + commission

	trade := types.Trade{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		Symbol:       symbol,
		StrategyName: strategy,
		Side:         side,
		Quantity:     quantity,
		Price:        price,
		Commission:   commission,
	}

	switch side {
	case types.SideBuy:
		if account.Cash < totalCost {
			return types.Trade{}, errors.Newf(errors.ErrCodeInsufficientCash,
				"insufficient cash: available %.2f, required %.2f", account.Cash, totalCost)
		}

		account.Cash -= totalCost
		account.Positions[symbol] += quantity

		trade.Total = totalCost
		trade.CashAfter = account.Cash

	case types.SideSell:
		held := account.Positions[symbol]
		if held < quantity {
			return types.Trade{}, errors.Newf(errors.ErrCodeInsufficientPosition,
				"insufficient %s position: have %f, trying to sell %f", symbol, held, quantity)
		}

		avgBuyPrice, err := l.store.AverageBuyPrice(strategy, symbol)
		if err != nil {
			return types.Trade{}, err
		}

		// (price - avgBuyPrice) * quantity - commission
		pnlDec := decimal.NewFromFloat(price).
			Sub(decimal.NewFromFloat(avgBuyPrice)).
			Mul(decimal.NewFromFloat(quantity)).
			Sub(decimal.NewFromFloat(commission))
		pnl, _ := pnlDec.Float64()

		proceeds := price*quantity - commission

		account.Cash += proceeds
		account.Positions[symbol] -= quantity

		if account.Positions[symbol] == 0 {
			delete(account.Positions, symbol)
		}

		account.TotalPnL += pnl

		if pnl > 0 {
			account.WinningTrades++
		} else {
			account.LosingTrades++
		}

		trade.Total = proceeds
		trade.CashAfter = account.Cash
		trade.PnL = pnl
	}

	account.TotalTrades++

	if err := l.store.RecordTrade(trade, account); err != nil {
		return types.Trade{}, err
	}

	l.log.Info("Executed trade",
		zap.String("strategy", strategy),
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
		zap.Float64("pnl", trade.PnL),
	)

	return trade, nil
}

// History returns the strategy's trade log in execution order.
func (l *Ledger) History(strategy string) ([]types.Trade, error) {
	return l.store.TradesByStrategy(strategy)
}

// Position returns the held quantity of a symbol, 0 when flat.
func (l *Ledger) Position(strategy, symbol string) (float64, error) {
	lock := l.strategyLock(strategy)
	lock.Lock()
	defer lock.Unlock()

	account, exists, err := l.store.GetAccount(strategy)
	if err != nil || !exists {
		return 0, err
	}

	return account.Positions[market.NormalizeSymbol(symbol)], nil
}

// Summary computes the caller-facing view of an account with equity
// marked to current prices. Symbols whose price cannot be fetched are
// left out of equity, matching cash-only valuation for them.
func (l *Ledger) Summary(ctx context.Context, strategy string) (types.PortfolioSummary, error) {
	lock := l.strategyLock(strategy)
	lock.Lock()
	defer lock.Unlock()

	account, err := l.loadOrCreateAccount(strategy)
	if err != nil {
		return types.PortfolioSummary{}, err
	}

	equity := account.Cash

	for symbol, quantity := range account.Positions {
		quote, err := l.provider.LatestPrice(ctx, symbol)
		if err != nil {
			l.log.Warn("Failed to price position",
				zap.String("strategy", strategy),
				zap.String("symbol", symbol),
				zap.Error(err),
			)

			continue
		}

		equity += quote.Price * quantity
	}

	totalPnL := equity - l.initialCapital

	return types.PortfolioSummary{
		StrategyName:    strategy,
		Cash:            account.Cash,
		Equity:          equity,
		InitialCapital:  l.initialCapital,
		TotalPnL:        totalPnL,
		TotalPnLPercent: totalPnL / l.initialCapital * 100,
		Positions:       account.Positions,
		TotalTrades:     account.TotalTrades,
		WinningTrades:   account.WinningTrades,
		LosingTrades:    account.LosingTrades,
		WinRate:         account.WinRate(),
	}, nil
}
