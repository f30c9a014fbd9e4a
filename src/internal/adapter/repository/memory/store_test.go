package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

func seedAccount(t *testing.T, s *Store, cash int64) domain.Account {
	t.Helper()
	account, err := s.Create(context.Background(), domain.Account{
		ID:           "acc-1",
		Username:     "ada",
		PasswordHash: "hash",
		Cash:         decimal.NewFromInt(cash),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return account
}

func posting(kind domain.TransactionKind, symbol string, shares int64, price string, at time.Time) domain.TradePosting {
	return domain.TradePosting{
		AccountID:  "acc-1",
		Kind:       kind,
		Symbol:     symbol,
		Shares:     shares,
		UnitPrice:  decimal.RequireFromString(price),
		ExecutedAt: at,
	}
}

func TestStoreCreateRejectsDuplicateUsername(t *testing.T) {
	s := NewStore()
	seedAccount(t, s, 100)

	_, err := s.Create(context.Background(), domain.Account{ID: "acc-2", Username: "ada"})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestStoreFindByUsername(t *testing.T) {
	s := NewStore()
	seedAccount(t, s, 100)

	found, err := s.FindByUsername(context.Background(), "ada")
	if err != nil || len(found) != 1 {
		t.Fatalf("expected one account, got %v (err %v)", found, err)
	}

	missing, err := s.FindByUsername(context.Background(), "bob")
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected no accounts, got %v (err %v)", missing, err)
	}
}

func TestStorePostTradeBuyThenSell(t *testing.T) {
	s := NewStore()
	seedAccount(t, s, 10000)
	ctx := context.Background()
	t0 := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	_, account, err := s.PostTrade(ctx, posting(domain.TransactionKindBuy, "AAA", 10, "50", t0))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !account.Cash.Equal(decimal.NewFromInt(9500)) {
		t.Fatalf("expected cash 9500, got %s", account.Cash)
	}

	sold, account, err := s.PostTrade(ctx, posting(domain.TransactionKindSell, "AAA", 4, "60", t0.Add(time.Second)))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !account.Cash.Equal(decimal.NewFromInt(9740)) {
		t.Fatalf("expected cash 9740, got %s", account.Cash)
	}
	if sold.ID != 2 {
		t.Fatalf("expected transaction id 2, got %d", sold.ID)
	}

	holdings, _ := s.Holdings(ctx, "acc-1")
	if len(holdings) != 1 || holdings[0].Shares != 6 {
		t.Fatalf("expected 6 AAA shares, got %v", holdings)
	}

	history, _ := s.ListTransactions(ctx, "acc-1")
	if len(history) != 2 || history[0].Kind != domain.TransactionKindSell {
		t.Fatalf("expected sell first in history, got %v", history)
	}
}

func TestStorePostTradeRejectsWithoutWriting(t *testing.T) {
	s := NewStore()
	seedAccount(t, s, 100)
	ctx := context.Background()
	now := time.Now().UTC()

	cases := map[string]struct {
		posting domain.TradePosting
		want    error
	}{
		"insufficient funds": {posting(domain.TransactionKindBuy, "AAA", 3, "50", now), domain.ErrInsufficientFunds},
		"not owned":          {posting(domain.TransactionKindSell, "AAA", 1, "50", now), domain.ErrNotOwned},
		"unknown kind":       {posting("hold", "AAA", 1, "50", now), domain.ErrInvalidOrder},
		"zero price":         {posting(domain.TransactionKindBuy, "AAA", 1000, "0", now), domain.ErrInvalidOrder},
		"zero shares":        {posting(domain.TransactionKindBuy, "AAA", 0, "1", now), domain.ErrInvalidOrder},
		"unknown account": {
			domain.TradePosting{AccountID: "nope", Kind: domain.TransactionKindBuy, Symbol: "AAA", Shares: 1, UnitPrice: decimal.NewFromInt(1)},
			domain.ErrRecordNotFound,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.PostTrade(ctx, tc.posting)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	account, _ := s.GetByID(ctx, "acc-1")
	if !account.Cash.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected cash unchanged at 100, got %s", account.Cash)
	}
	history, _ := s.ListTransactions(ctx, "acc-1")
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %v", history)
	}
}

func TestStoreSellMoreThanHeld(t *testing.T) {
	s := NewStore()
	seedAccount(t, s, 1000)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, _, err := s.PostTrade(ctx, posting(domain.TransactionKindBuy, "AAA", 2, "10", now)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	_, _, err := s.PostTrade(ctx, posting(domain.TransactionKindSell, "AAA", 3, "10", now))
	if !errors.Is(err, domain.ErrInsufficientShares) {
		t.Fatalf("expected ErrInsufficientShares, got %v", err)
	}
}

func TestStoreConcurrentSellsNeverOversell(t *testing.T) {
	s := NewStore()
	seedAccount(t, s, 1000)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, _, err := s.PostTrade(ctx, posting(domain.TransactionKindBuy, "AAA", 5, "10", now)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	const sellers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < sellers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.PostTrade(ctx, posting(domain.TransactionKindSell, "AAA", 5, "10", now))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, domain.ErrNotOwned) && !errors.Is(err, domain.ErrInsufficientShares) {
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one sell to succeed, got %d", succeeded)
	}
	account, _ := s.GetByID(ctx, "acc-1")
	if !account.Cash.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected cash 1000, got %s", account.Cash)
	}
}

func TestStoreDepositCash(t *testing.T) {
	s := NewStore()
	seedAccount(t, s, 100)

	account, err := s.DepositCash(context.Background(), "acc-1", decimal.RequireFromString("25.5"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !account.Cash.Equal(decimal.RequireFromString("125.5")) {
		t.Fatalf("expected cash 125.5, got %s", account.Cash)
	}

	if _, err := s.DepositCash(context.Background(), "nope", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
