package main

import (
	"context"
	"fmt"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/quotes"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/repository/implementations"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/repository/memory"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/repository/sqlite"
	"github.com/api-sage/paper-trading-engine/src/internal/config"
	"github.com/api-sage/paper-trading-engine/src/internal/domain"
)

type stores struct {
	accounts repo_interfaces.AccountRepository
	ledger   repo_interfaces.LedgerRepository
	close    func() error
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := implementations.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return stores{}, fmt.Errorf("open postgres: %w", err)
		}
		return stores{
			accounts: implementations.NewAccountRepository(db),
			ledger:   implementations.NewLedgerRepository(db),
			close:    db.Close,
		}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return stores{}, fmt.Errorf("open sqlite: %w", err)
		}
		return stores{accounts: store, ledger: store, close: store.Close}, nil
	case config.DriverMemory:
		store := memory.NewStore()
		return stores{accounts: store, ledger: store, close: func() error { return nil }}, nil
	default:
		return stores{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

func newQuoteProvider(cfg config.Config) (domain.QuoteProvider, error) {
	switch cfg.QuoteProvider {
	case config.QuoteProviderYahoo:
		return quotes.NewYahooProvider("", cfg.QuoteTimeout), nil
	case config.QuoteProviderAlphaVantage:
		return quotes.NewAlphaVantageProvider("", cfg.AlphaVantageAPIKey, cfg.QuoteTimeout), nil
	case config.QuoteProviderStatic:
		parsed, err := quotes.ParseStaticQuotes(cfg.StaticQuotes)
		if err != nil {
			return nil, fmt.Errorf("parse STATIC_QUOTES: %w", err)
		}
		return quotes.NewStaticProvider(parsed...), nil
	default:
		return nil, fmt.Errorf("unsupported quote provider %q", cfg.QuoteProvider)
	}
}
