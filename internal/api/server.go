// Package api exposes the strategy, backtest, trading and market data
// operations over HTTP.
package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/papertrade-lab/stratler/internal/config"
	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/market"
	"github.com/papertrade-lab/stratler/internal/portfolio"
)

// Server wires the HTTP routes around the ledger, the store and the
// market data provider. The provider is injected so tests and offline
// runs can swap in fixtures.
type Server struct {
	router   *gin.Engine
	store    *portfolio.Store
	ledger   *portfolio.Ledger
	provider market.Provider
	cfg      config.Config
	log      *logger.Logger
}

// NewServer builds the server with its full middleware stack and
// routes.
func NewServer(cfg config.Config, store *portfolio.Store, ledger *portfolio.Ledger, provider market.Provider, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger(log))
	r.Use(RateLimitMiddleware())
	r.Use(CORSMiddleware())

	s := &Server{
		router:   r,
		store:    store,
		ledger:   ledger,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.router.GET("/health", s.health)
	s.router.GET("/ws/market/:symbol", s.streamPrices)

	v1 := s.router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", s.registerUser)
			auth.POST("/login", s.loginUser)
		}

		v1.GET("/strategies", s.listStrategies)
		v1.GET("/strategies/:name/signals/:symbol", s.strategySignals)
		v1.POST("/backtest/run", s.runBacktest)
		v1.GET("/backtest/compare/:symbol", s.compareBacktests)

		marketGroup := v1.Group("/market")
		{
			marketGroup.GET("/:symbol/bars", s.marketBars)
			marketGroup.GET("/:symbol/price", s.marketPrice)
		}

		protected := v1.Group("")
		protected.Use(AuthMiddleware(s.cfg.Auth.JWTSecret))
		{
			protected.POST("/trades/execute", s.executeTrade)
			protected.GET("/trades/:strategy", s.tradeHistory)
			protected.GET("/portfolio/:strategy", s.portfolioSummary)
		}
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server on the configured address.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	return s.router.Run(addr)
}
