package service_interfaces

import (
	"context"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
)

type PortfolioService interface {
	ValuePortfolio(ctx context.Context, accountID string) (commons.Response[models.PortfolioResponse], error)
	ListTransactions(ctx context.Context, accountID string) (commons.Response[models.HistoryResponse], error)
}
