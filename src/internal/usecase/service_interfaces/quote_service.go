package service_interfaces

import (
	"context"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
)

type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (commons.Response[models.QuoteResponse], error)
}
