package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Store keeps accounts and the ledger in process memory. Every write holds the
// store lock across its validation and commit.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	usernames    map[string]string
	transactions map[string][]domain.Transaction
	nextTxID     int64
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		usernames:    make(map[string]string),
		transactions: make(map[string][]domain.Transaction),
		now:          time.Now,
	}
}

func (s *Store) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernames[account.Username]; exists {
		return domain.Account{}, domain.ErrUsernameTaken
	}

	now := s.now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = account
	s.usernames[account.Username] = account.ID

	return account, nil
}

func (s *Store) GetByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, nil
	}
	return []domain.Account{s.accounts[id]}, nil
}

func (s *Store) DepositCash(_ context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	account.Cash = account.Cash.Add(amount)
	account.UpdatedAt = s.now().UTC()
	s.accounts[id] = account

	return account, nil
}

func (s *Store) PostTrade(_ context.Context, posting domain.TradePosting) (domain.Transaction, domain.Account, error) {
	if err := posting.Validate(); err != nil {
		return domain.Transaction{}, domain.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[posting.AccountID]
	if !ok {
		return domain.Transaction{}, domain.Account{}, domain.ErrRecordNotFound
	}
	switch posting.Kind {
	case domain.TransactionKindBuy:
		if account.Cash.LessThan(posting.Amount()) {
			return domain.Transaction{}, domain.Account{}, domain.InsufficientFundsError(posting.Amount(), account.Cash)
		}
	case domain.TransactionKindSell:
		held := domain.SharesOf(domain.AggregateHoldings(s.transactions[posting.AccountID]), posting.Symbol)
		if held == 0 {
			return domain.Transaction{}, domain.Account{}, domain.NotOwnedError(posting.Symbol)
		}
		if posting.Shares > held {
			return domain.Transaction{}, domain.Account{}, domain.InsufficientSharesError(posting.Symbol, held, posting.Shares)
		}
	default:
		return domain.Transaction{}, domain.Account{}, domain.NewError(domain.KindInvalidOrder, "unsupported transaction kind %q", posting.Kind)
	}

	s.nextTxID++
	tx := posting.Transaction(s.nextTxID)

	account.Cash = account.Cash.Add(posting.CashDelta())
	account.UpdatedAt = s.now().UTC()
	s.accounts[account.ID] = account
	s.transactions[account.ID] = append(s.transactions[account.ID], tx)

	return tx, account, nil
}

func (s *Store) ListTransactions(_ context.Context, accountID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]domain.Transaction, len(s.transactions[accountID]))
	copy(txs, s.transactions[accountID])

	domain.SortNewestFirst(txs)
	return txs, nil
}

func (s *Store) Holdings(_ context.Context, accountID string) ([]domain.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.AggregateHoldings(s.transactions[accountID]), nil
}
