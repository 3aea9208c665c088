package main

import (
	"context"
	"log"
	"os"

	"github.com/papertrade-lab/stratler/internal/api"
	"github.com/papertrade-lab/stratler/internal/config"
	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/market"
	"github.com/papertrade-lab/stratler/internal/portfolio"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	l, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	store, err := portfolio.NewStore(cfg.Database.Path, l)
	if err != nil {
		return err
	}
	defer store.Close()

	provider := market.NewCachingProvider(market.NewBinanceProvider(l), cfg.Market.CacheTTL)
	ledger := portfolio.NewLedger(store, provider, cfg.Trading.InitialCapital, cfg.Trading.CommissionRate, l)
	server := api.NewServer(cfg, store, ledger, provider, l)

	l.Info("Starting server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path),
	)

	return server.Start()
}

func main() {
	cmd := &cli.Command{
		Name:  "server",
		Usage: "Run the paper-trading API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
			},
		},
		Action: serveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
