package portfolio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/market"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	suite.Suite
	store   *Store
	fixture *market.FixtureProvider
	ledger  *Ledger
	ctx     context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupTest() {
	store, err := NewStore("", logger.NewNopLogger())
	s.Require().NoError(err)

	s.store = store
	s.fixture = market.NewFixtureProvider()
	s.ledger = NewLedger(store, s.fixture, 100000, 0.001, logger.NewNopLogger())
	s.ctx = context.Background()
}

func (s *LedgerTestSuite) TearDownTest() {
	s.store.Close()
}

func (s *LedgerTestSuite) setPrice(symbol string, price float64) {
	s.fixture.SetQuote(symbol, types.Quote{
		Symbol: market.NormalizeSymbol(symbol),
		Price:  price,
		Time:   time.Now().UTC(),
	})
}

func (s *LedgerTestSuite) TestBuyUpdatesCashAndPosition() {
	s.setPrice("AAPL", 100)

	trade, err := s.ledger.ExecuteTrade(s.ctx, "RSI_14_30_70", "AAPL", types.SideBuy, 10)
	s.Require().NoError(err)

	s.NotEmpty(trade.ID)
	s.Equal(types.SideBuy, trade.Side)
	s.InDelta(1.0, trade.Commission, 1e-9)
	s.InDelta(1001.0, trade.Total, 1e-9)
	s.InDelta(98999.0, trade.CashAfter, 1e-9)

	account, exists, err := s.store.GetAccount("RSI_14_30_70")
	s.Require().NoError(err)
	s.Require().True(exists)
	s.InDelta(98999.0, account.Cash, 1e-9)
	s.InDelta(10.0, account.Positions["AAPL"], 1e-9)
	s.Equal(1, account.TotalTrades)
	s.Equal(0, account.WinningTrades)
	s.Equal(0, account.LosingTrades)
}

func (s *LedgerTestSuite) TestSellComputesPnLFromAverageBuyPrice() {
	strategy := "MA_CROSSOVER_20_50"

	s.setPrice("AAPL", 100)
	_, err := s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideBuy, 10)
	s.Require().NoError(err)

	s.setPrice("AAPL", 200)
	_, err = s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideBuy, 10)
	s.Require().NoError(err)

	// Average entry is 150; selling 10 at 250 realizes
	// (250-150)*10 - 2.5 commission.
	s.setPrice("AAPL", 250)
	trade, err := s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideSell, 10)
	s.Require().NoError(err)
	s.InDelta(997.5, trade.PnL, 1e-9)

	account, _, err := s.store.GetAccount(strategy)
	s.Require().NoError(err)
	s.InDelta(997.5, account.TotalPnL, 1e-9)
	s.Equal(1, account.WinningTrades)
	s.Equal(0, account.LosingTrades)
	s.Equal(3, account.TotalTrades)
	s.InDelta(10.0, account.Positions["AAPL"], 1e-9)
}

func (s *LedgerTestSuite) TestPositionRemovedWhenFullyClosed() {
	strategy := "BB_20_2"

	s.setPrice("MSFT", 50)
	_, err := s.ledger.ExecuteTrade(s.ctx, strategy, "MSFT", types.SideBuy, 4)
	s.Require().NoError(err)

	_, err = s.ledger.ExecuteTrade(s.ctx, strategy, "MSFT", types.SideSell, 4)
	s.Require().NoError(err)

	account, _, err := s.store.GetAccount(strategy)
	s.Require().NoError(err)
	s.NotContains(account.Positions, "MSFT")
}

func (s *LedgerTestSuite) TestZeroPnLSellCountsAsLoss() {
	strategy := "BB_20_2"

	// Zero commission so the round trip at one price realizes exactly 0.
	ledger := NewLedger(s.store, s.fixture, 100000, 0, logger.NewNopLogger())

	s.setPrice("MSFT", 50)

	_, err := ledger.ExecuteTrade(s.ctx, strategy, "MSFT", types.SideBuy, 4)
	s.Require().NoError(err)

	trade, err := ledger.ExecuteTrade(s.ctx, strategy, "MSFT", types.SideSell, 4)
	s.Require().NoError(err)
	s.Equal(0.0, trade.PnL)

	account, _, err := s.store.GetAccount(strategy)
	s.Require().NoError(err)
	s.Equal(0, account.WinningTrades)
	s.Equal(1, account.LosingTrades)
}

func (s *LedgerTestSuite) TestInsufficientCashLeavesStateUnchanged() {
	strategy := "RSI_14_30_70"

	s.setPrice("AAPL", 100)
	_, err := s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideBuy, 10)
	s.Require().NoError(err)

	before, _, err := s.store.GetAccount(strategy)
	s.Require().NoError(err)

	tradesBefore, err := s.ledger.History(strategy)
	s.Require().NoError(err)

	// Way beyond available cash.
	_, err = s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideBuy, 100000)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInsufficientCash))

	after, _, err := s.store.GetAccount(strategy)
	s.Require().NoError(err)
	s.Equal(before, after)

	tradesAfter, err := s.ledger.History(strategy)
	s.Require().NoError(err)
	s.Len(tradesAfter, len(tradesBefore))
}

func (s *LedgerTestSuite) TestInsufficientPositionRejected() {
	strategy := "RSI_14_30_70"

	s.setPrice("AAPL", 100)
	_, err := s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideBuy, 5)
	s.Require().NoError(err)

	_, err = s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideSell, 6)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInsufficientPosition))

	account, _, err := s.store.GetAccount(strategy)
	s.Require().NoError(err)
	s.InDelta(5.0, account.Positions["AAPL"], 1e-9)
	s.Equal(1, account.TotalTrades)
}

func (s *LedgerTestSuite) TestMissingQuoteRejected() {
	_, err := s.ledger.ExecuteTrade(s.ctx, "RSI_14_30_70", "UNKNOWN", types.SideBuy, 1)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeNoData))
}

func (s *LedgerTestSuite) TestInvalidArguments() {
	s.setPrice("AAPL", 100)

	_, err := s.ledger.ExecuteTrade(s.ctx, "RSI_14_30_70", "AAPL", types.SideBuy, 0)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = s.ledger.ExecuteTrade(s.ctx, "RSI_14_30_70", "AAPL", types.Side("SHORT"), 1)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (s *LedgerTestSuite) TestAccountsAreIsolatedPerStrategy() {
	s.setPrice("AAPL", 100)

	_, err := s.ledger.ExecuteTrade(s.ctx, "RSI_14_30_70", "AAPL", types.SideBuy, 10)
	s.Require().NoError(err)

	fresh, _, err := s.store.GetAccount("BB_20_2")
	s.Require().NoError(err)
	s.Empty(fresh.StrategyName)

	summary, err := s.ledger.Summary(s.ctx, "BB_20_2")
	s.Require().NoError(err)
	s.Equal(100000.0, summary.Cash)
	s.Equal(0, summary.TotalTrades)
}

func (s *LedgerTestSuite) TestSummaryMarksEquityToMarket() {
	strategy := "MA_CROSSOVER_20_50"

	s.setPrice("AAPL", 100)
	_, err := s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideBuy, 10)
	s.Require().NoError(err)

	s.setPrice("AAPL", 150)

	summary, err := s.ledger.Summary(s.ctx, strategy)
	s.Require().NoError(err)

	// cash 98999 + 10 * 150
	s.InDelta(100499.0, summary.Equity, 1e-9)
	s.InDelta(499.0, summary.TotalPnL, 1e-9)
	s.InDelta(0.499, summary.TotalPnLPercent, 1e-9)
	s.Equal(100000.0, summary.InitialCapital)
}

func (s *LedgerTestSuite) TestConcurrentTradesSameStrategySerialize() {
	strategy := "RSI_14_30_70"
	s.setPrice("AAPL", 100)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideBuy, 1)
			s.NoError(err)
		}()
	}

	wg.Wait()

	account, _, err := s.store.GetAccount(strategy)
	s.Require().NoError(err)
	s.Equal(10, account.TotalTrades)
	s.InDelta(10.0, account.Positions["AAPL"], 1e-9)
	s.InDelta(100000.0-10*100.1, account.Cash, 1e-6)
}

func (s *LedgerTestSuite) TestHistoryReturnsExecutedTrades() {
	strategy := "BB_20_2"
	s.setPrice("AAPL", 100)

	_, err := s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideBuy, 2)
	s.Require().NoError(err)

	_, err = s.ledger.ExecuteTrade(s.ctx, strategy, "AAPL", types.SideSell, 2)
	s.Require().NoError(err)

	trades, err := s.ledger.History(strategy)
	s.Require().NoError(err)
	s.Require().Len(trades, 2)
	s.Equal(types.SideBuy, trades[0].Side)
	s.Equal(types.SideSell, trades[1].Side)
}
