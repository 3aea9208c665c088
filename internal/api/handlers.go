package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moznion/go-optional"
	"github.com/papertrade-lab/stratler/internal/backtest"
	"github.com/papertrade-lab/stratler/internal/backtest/commission"
	"github.com/papertrade-lab/stratler/internal/strategy"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

func (s *Server) listStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": strategy.List()})
}

func (s *Server) strategySignals(c *gin.Context) {
	symbol := c.Param("symbol")
	period := c.DefaultQuery("period", s.cfg.Trading.DefaultPeriod)
	interval := c.DefaultQuery("interval", s.cfg.Trading.DefaultInterval)

	strat, err := strategy.New(c.Param("name"), nil)
	if err != nil {
		respondError(c, err)
		return
	}

	bars, err := s.provider.HistoricalBars(c.Request.Context(), symbol, period, interval)
	if err != nil {
		respondError(c, err)
		return
	}

	events, err := strat.SignalsSummary(bars)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":   symbol,
		"strategy": strat.Name(),
		"period":   period,
		"interval": interval,
		"signals":  events,
	})
}

type backtestRequest struct {
	StrategyName   string         `json:"strategy_name" binding:"required"`
	Parameters     map[string]any `json:"parameters"`
	Symbol         string         `json:"symbol" binding:"required"`
	Period         string         `json:"period"`
	Interval       string         `json:"interval"`
	InitialCapital float64        `json:"initial_capital" binding:"omitempty,gt=0"`
	CommissionRate float64        `json:"commission_rate" binding:"omitempty,gte=0,lt=1"`
}

func (s *Server) runBacktest(c *gin.Context) {
	var req backtestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid backtest payload", err))
		return
	}

	s.applyBacktestDefaults(&req)

	strat, err := strategy.New(req.StrategyName, req.Parameters)
	if err != nil {
		respondError(c, err)
		return
	}

	bars, err := s.provider.HistoricalBars(c.Request.Context(), req.Symbol, req.Period, req.Interval)
	if err != nil {
		respondError(c, err)
		return
	}

	engine := backtest.NewEngine(strat, req.InitialCapital, commission.NewRateCommission(req.CommissionRate), s.log)

	result, err := engine.Run(bars, optional.None[backtest.OnBarCallback]())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) applyBacktestDefaults(req *backtestRequest) {
	if req.Period == "" {
		req.Period = s.cfg.Trading.DefaultPeriod
	}

	if req.Interval == "" {
		req.Interval = s.cfg.Trading.DefaultInterval
	}

	if req.InitialCapital == 0 {
		req.InitialCapital = s.cfg.Trading.InitialCapital
	}

	if req.CommissionRate == 0 {
		req.CommissionRate = s.cfg.Trading.CommissionRate
	}
}

func (s *Server) compareBacktests(c *gin.Context) {
	symbol := c.Param("symbol")
	period := c.DefaultQuery("period", s.cfg.Trading.DefaultPeriod)
	interval := c.DefaultQuery("interval", s.cfg.Trading.DefaultInterval)

	bars, err := s.provider.HistoricalBars(c.Request.Context(), symbol, period, interval)
	if err != nil {
		respondError(c, err)
		return
	}

	strategies := make([]strategy.Strategy, 0, len(strategy.List()))

	for _, info := range strategy.List() {
		strat, err := strategy.New(info.Name, nil)
		if err != nil {
			respondError(c, err)
			return
		}

		strategies = append(strategies, strat)
	}

	entries := backtest.Compare(strategies, bars,
		s.cfg.Trading.InitialCapital,
		commission.NewRateCommission(s.cfg.Trading.CommissionRate),
		s.log)

	results := make([]gin.H, 0, len(entries))

	for _, entry := range entries {
		item := gin.H{"strategy_name": entry.StrategyName}
		if entry.Err != nil {
			item["error"] = entry.Err.Error()
			item["code"] = int(errors.GetCode(entry.Err))
		} else {
			item["result"] = entry.Result
		}

		results = append(results, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":  symbol,
		"period":  period,
		"results": results,
	})
}

type executeTradeRequest struct {
	Strategy string  `json:"strategy" binding:"required"`
	Symbol   string  `json:"symbol" binding:"required"`
	Side     string  `json:"side" binding:"required,oneof=BUY SELL"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

func (s *Server) executeTrade(c *gin.Context) {
	var req executeTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid trade payload", err))
		return
	}

	trade, err := s.ledger.ExecuteTrade(c.Request.Context(), req.Strategy, req.Symbol, types.Side(req.Side), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trade)
}

func (s *Server) tradeHistory(c *gin.Context) {
	trades, err := s.ledger.History(c.Param("strategy"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"strategy": c.Param("strategy"),
		"trades":   trades,
	})
}

func (s *Server) portfolioSummary(c *gin.Context) {
	summary, err := s.ledger.Summary(c.Request.Context(), c.Param("strategy"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) marketBars(c *gin.Context) {
	symbol := c.Param("symbol")
	period := c.DefaultQuery("period", s.cfg.Trading.DefaultPeriod)
	interval := c.DefaultQuery("interval", s.cfg.Trading.DefaultInterval)

	bars, err := s.provider.HistoricalBars(c.Request.Context(), symbol, period, interval)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":   symbol,
		"period":   period,
		"interval": interval,
		"bars":     bars,
	})
}

func (s *Server) marketPrice(c *gin.Context) {
	quote, err := s.provider.LatestPrice(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}
