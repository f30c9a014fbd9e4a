package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if _, err := s.Create(context.Background(), domain.Account{
		ID:           "0b8f3c9e-8f4a-4c55-9d0c-3c1e7e0d2a11",
		Username:     "ada",
		PasswordHash: "hash",
		Cash:         decimal.NewFromInt(10000),
	}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return s
}

const testAccountID = "0b8f3c9e-8f4a-4c55-9d0c-3c1e7e0d2a11"

func trade(kind domain.TransactionKind, shares int64, price string, at time.Time) domain.TradePosting {
	return domain.TradePosting{
		AccountID:  testAccountID,
		Kind:       kind,
		Symbol:     "AAA",
		Shares:     shares,
		UnitPrice:  decimal.RequireFromString(price),
		ExecutedAt: at,
	}
}

func TestStoreCreateDuplicateUsername(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Create(context.Background(), domain.Account{ID: "other", Username: "ada", PasswordHash: "x", Cash: decimal.Zero})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestStoreGetByIDNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestStoreTradeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	if _, _, err := s.PostTrade(ctx, trade(domain.TransactionKindBuy, 10, "50", t0)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	_, account, err := s.PostTrade(ctx, trade(domain.TransactionKindSell, 4, "60", t0.Add(time.Second)))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !account.Cash.Equal(decimal.NewFromInt(9740)) {
		t.Fatalf("expected cash 9740, got %s", account.Cash)
	}

	stored, err := s.GetByID(ctx, testAccountID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !stored.Cash.Equal(decimal.NewFromInt(9740)) {
		t.Fatalf("expected stored cash 9740, got %s", stored.Cash)
	}

	holdings, err := s.Holdings(ctx, testAccountID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(holdings) != 1 || holdings[0].Symbol != "AAA" || holdings[0].Shares != 6 {
		t.Fatalf("expected 6 AAA shares, got %v", holdings)
	}

	history, err := s.ListTransactions(ctx, testAccountID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(history))
	}
	if history[0].Kind != domain.TransactionKindSell || !history[0].ExecutedAt.Equal(t0.Add(time.Second)) {
		t.Fatalf("expected newest sell first, got %+v", history[0])
	}
	if !history[1].UnitPrice.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected buy price 50, got %s", history[1].UnitPrice)
	}
}

func TestStorePostTradeRejections(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, _, err := s.PostTrade(ctx, trade(domain.TransactionKindSell, 1, "10", now)); !errors.Is(err, domain.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
	if _, _, err := s.PostTrade(ctx, trade(domain.TransactionKindBuy, 1000, "50", now)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, _, err := s.PostTrade(ctx, trade(domain.TransactionKindBuy, 1000000, "0", now)); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for zero price, got %v", err)
	}

	history, _ := s.ListTransactions(ctx, testAccountID)
	if len(history) != 0 {
		t.Fatalf("expected no transactions, got %v", history)
	}
}

func TestStoreConcurrentSells(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, _, err := s.PostTrade(ctx, trade(domain.TransactionKindBuy, 5, "10", now)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.PostTrade(ctx, trade(domain.TransactionKindSell, 5, "10", now))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one sell to succeed, got %d", succeeded)
	}
	holdings, _ := s.Holdings(ctx, testAccountID)
	if len(holdings) != 0 {
		t.Fatalf("expected no holdings, got %v", holdings)
	}
}

func TestStoreDepositCash(t *testing.T) {
	s := openTestStore(t)

	account, err := s.DepositCash(context.Background(), testAccountID, decimal.RequireFromString("0.0001"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !account.Cash.Equal(decimal.RequireFromString("10000.0001")) {
		t.Fatalf("expected cash 10000.0001, got %s", account.Cash)
	}
}
