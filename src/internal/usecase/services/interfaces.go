package services

import "github.com/api-sage/paper-trading-engine/src/internal/usecase/service_interfaces"

var (
	_ service_interfaces.AccountService   = (*AccountService)(nil)
	_ service_interfaces.TradeService     = (*TradeService)(nil)
	_ service_interfaces.PortfolioService = (*PortfolioService)(nil)
	_ service_interfaces.QuoteService     = (*QuoteService)(nil)
)
