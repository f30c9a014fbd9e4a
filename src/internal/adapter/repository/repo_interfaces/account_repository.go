package repo_interfaces

import (
	"context"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	FindByUsername(ctx context.Context, username string) ([]domain.Account, error)
	DepositCash(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error)
}
