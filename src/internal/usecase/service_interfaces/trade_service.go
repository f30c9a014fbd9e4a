package service_interfaces

import (
	"context"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
)

type TradeService interface {
	Buy(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.TradeConfirmation], error)
	Sell(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.TradeConfirmation], error)
}
