package router

import "net/http"

type AccountRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type TradeRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type PortfolioRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type QuoteRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	accountController AccountRouteRegistrar,
	tradeController TradeRouteRegistrar,
	portfolioController PortfolioRouteRegistrar,
	quoteController QuoteRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	if accountController != nil {
		accountController.RegisterRoutes(mux, authMiddleware)
	}
	if tradeController != nil {
		tradeController.RegisterRoutes(mux, authMiddleware)
	}
	if portfolioController != nil {
		portfolioController.RegisterRoutes(mux, authMiddleware)
	}
	if quoteController != nil {
		quoteController.RegisterRoutes(mux, authMiddleware)
	}

	return mux
}
