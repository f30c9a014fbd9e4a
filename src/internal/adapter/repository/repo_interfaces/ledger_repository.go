package repo_interfaces

import (
	"context"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
)

type LedgerRepository interface {
	// PostTrade re-validates the posting against the locked account state and
	// commits the cash movement and the ledger entry together.
	PostTrade(ctx context.Context, posting domain.TradePosting) (domain.Transaction, domain.Account, error)
	ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
	Holdings(ctx context.Context, accountID string) ([]domain.Holding, error)
}
