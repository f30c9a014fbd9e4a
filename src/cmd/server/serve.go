package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/credentials"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/controller"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/middleware"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/router"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/config"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/api-sage/paper-trading-engine/src/internal/usecase/services"
	"github.com/google/subcommands"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the trading HTTP API" }
func (*serveCmd) Usage() string {
	return `serve [-addr :8080]

Starts the JSON API. Storage and quote source come from the environment
(DATABASE_DRIVER, QUOTE_PROVIDER, ...).
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides HTTP_ADDR")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return subcommands.ExitFailure
	}
	logger.SetLevel(cfg.LogLevel)
	if c.addr != "" {
		cfg.HTTPAddr = c.addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		logger.Error("server stopped with error", err, logger.Fields{"addr": cfg.HTTPAddr})
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func serve(ctx context.Context, cfg config.Config) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.close(); closeErr != nil {
			logger.Error("close store failed", closeErr, logger.Fields{"driver": cfg.DatabaseDriver})
		}
	}()

	quoteProvider, err := newQuoteProvider(cfg)
	if err != nil {
		return err
	}

	clock := commons.NewMonotonicClock()
	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	mux := router.New(
		controller.NewAccountController(
			services.NewAccountService(st.accounts, credentials.NewBcryptHasher(bcrypt.DefaultCost), cfg.InitialCash, cfg.Currency),
			tokens,
		),
		controller.NewTradeController(services.NewTradeService(st.accounts, st.ledger, quoteProvider, clock, cfg.Currency)),
		controller.NewPortfolioController(services.NewPortfolioService(st.accounts, st.ledger, quoteProvider, cfg.Currency)),
		controller.NewQuoteController(services.NewQuoteService(quoteProvider, cfg.Currency)),
		middleware.BearerAuth(tokens),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", logger.Fields{
			"addr":          cfg.HTTPAddr,
			"driver":        cfg.DatabaseDriver,
			"quoteProvider": cfg.QuoteProvider,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("server shutting down", logger.Fields{"addr": cfg.HTTPAddr})
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
