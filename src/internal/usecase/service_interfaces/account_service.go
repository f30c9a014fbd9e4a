package service_interfaces

import (
	"context"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
)

type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (commons.Response[models.AccountResponse], error)
	Authenticate(ctx context.Context, req models.LoginRequest) (commons.Response[models.AccountResponse], error)
	DepositCash(ctx context.Context, accountID string, req models.DepositCashRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error)
}
