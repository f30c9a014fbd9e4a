package services_test

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/quotes"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/repository/memory"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/api-sage/paper-trading-engine/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(password string, hash string) bool {
	return hash == "hashed:"+password
}

type accountRepoStub struct {
	createFn         func(ctx context.Context, account domain.Account) (domain.Account, error)
	getByIDFn        func(ctx context.Context, id string) (domain.Account, error)
	findByUsernameFn func(ctx context.Context, username string) ([]domain.Account, error)
	depositCashFn    func(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error)
}

func (s accountRepoStub) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	if s.createFn == nil {
		return domain.Account{}, errors.New("unexpected Create call")
	}
	return s.createFn(ctx, account)
}

func (s accountRepoStub) GetByID(ctx context.Context, id string) (domain.Account, error) {
	if s.getByIDFn == nil {
		return domain.Account{}, errors.New("unexpected GetByID call")
	}
	return s.getByIDFn(ctx, id)
}

func (s accountRepoStub) FindByUsername(ctx context.Context, username string) ([]domain.Account, error) {
	if s.findByUsernameFn == nil {
		return nil, errors.New("unexpected FindByUsername call")
	}
	return s.findByUsernameFn(ctx, username)
}

func (s accountRepoStub) DepositCash(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	if s.depositCashFn == nil {
		return domain.Account{}, errors.New("unexpected DepositCash call")
	}
	return s.depositCashFn(ctx, id, amount)
}

type quoteProviderFunc func(ctx context.Context, symbol string) (domain.Quote, error)

func (f quoteProviderFunc) Lookup(ctx context.Context, symbol string) (domain.Quote, error) {
	return f(ctx, symbol)
}

// fataler is the part of *testing.T and *rapid.T the harness needs.
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

type harness struct {
	store     *memory.Store
	market    *quotes.StaticProvider
	accounts  *services.AccountService
	trades    *services.TradeService
	portfolio *services.PortfolioService
	accountID string
}

func newHarness(t fataler, initialCash int64) *harness {
	t.Helper()

	store := memory.NewStore()
	market := quotes.NewStaticProvider(
		domain.Quote{Symbol: "AAA", Name: "Acme Corp", Price: decimal.NewFromInt(50)},
		domain.Quote{Symbol: "BBB", Name: "Beta Inc", Price: decimal.RequireFromString("12.25")},
		domain.Quote{Symbol: "CCC", Name: "Gamma Ltd", Price: decimal.RequireFromString("199.9999")},
	)
	clock := commons.NewMonotonicClock()

	h := &harness{
		store:     store,
		market:    market,
		accounts:  services.NewAccountService(store, plainHasher{}, decimal.NewFromInt(initialCash), "USD"),
		trades:    services.NewTradeService(store, store, market, clock, "USD"),
		portfolio: services.NewPortfolioService(store, store, market, "USD"),
	}

	resp, err := h.accounts.Register(context.Background(), models.RegisterRequest{
		Username:     "ada",
		Password:     "pw",
		Confirmation: "pw",
	})
	if err != nil {
		t.Fatalf("expected nil error registering, got %v", err)
	}
	h.accountID = resp.Data.ID
	return h
}

func (h *harness) setPrice(symbol string, price string) {
	h.market.Set(domain.Quote{Symbol: symbol, Name: symbol, Price: decimal.RequireFromString(price)})
}

func (h *harness) buy(symbol string, shares string) (commons.Response[models.TradeConfirmation], error) {
	return h.trades.Buy(context.Background(), h.accountID, models.TradeRequest{Symbol: symbol, Shares: models.Quantity(shares)})
}

func (h *harness) sell(symbol string, shares string) (commons.Response[models.TradeConfirmation], error) {
	return h.trades.Sell(context.Background(), h.accountID, models.TradeRequest{Symbol: symbol, Shares: models.Quantity(shares)})
}

type ledgerSnapshot struct {
	Cash         string
	Holdings     []domain.Holding
	Transactions []domain.Transaction
}

func (h *harness) snapshot(t fataler) ledgerSnapshot {
	t.Helper()
	ctx := context.Background()

	account, err := h.store.GetByID(ctx, h.accountID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	holdings, err := h.store.Holdings(ctx, h.accountID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	txs, err := h.store.ListTransactions(ctx, h.accountID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return ledgerSnapshot{
		Cash:         account.Cash.StringFixed(domain.MoneyScale),
		Holdings:     holdings,
		Transactions: txs,
	}
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(strings.TrimSpace(s))
}
