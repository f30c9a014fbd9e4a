package services

import (
	"context"
	"strings"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
)

type QuoteService struct {
	quotes   domain.QuoteProvider
	currency string
}

func NewQuoteService(quotes domain.QuoteProvider, currency string) *QuoteService {
	return &QuoteService{
		quotes:   quotes,
		currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
}

func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (commons.Response[models.QuoteResponse], error) {
	logger.Info("quote service get quote request", logger.Fields{
		"symbol": symbol,
	})

	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		err := domain.NewError(domain.KindInvalidOrder, "symbol is required")
		return commons.KindResponse[models.QuoteResponse]("validation failed", err), err
	}

	quote, err := lookupQuote(ctx, s.quotes, symbol)
	if err != nil {
		logger.Error("quote service get quote failed", err, logger.Fields{
			"symbol": symbol,
		})
		return commons.KindResponse[models.QuoteResponse]("failed to get quote", err), err
	}

	response := models.QuoteResponse{
		Symbol:  quote.Symbol,
		Name:    quote.Name,
		Price:   quote.Price,
		Display: "A share of " + quote.Name + " (" + quote.Symbol + ") costs " + commons.FormatMoney(quote.Price, s.currency),
	}

	return commons.SuccessResponse("quote fetched successfully", response), nil
}

// lookupQuote calls provider for symbol and guarantees the result is either a
// positively priced quote under symbol, ErrUnknownSymbol or
// ErrQuoteUnavailable.
func lookupQuote(ctx context.Context, provider domain.QuoteProvider, symbol string) (domain.Quote, error) {
	quote, err := provider.Lookup(ctx, symbol)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindUnknownSymbol, domain.KindQuoteUnavailable:
			return domain.Quote{}, err
		default:
			return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable for "+symbol, err)
		}
	}
	// Sub-scale prices round to zero and cannot be traded.
	quote.Price = quote.Price.Round(domain.MoneyScale)
	if !quote.Price.IsPositive() {
		return domain.Quote{}, domain.NewError(domain.KindQuoteUnavailable, "No price available for %s", symbol)
	}

	quote.Symbol = symbol
	if quote.Name == "" {
		quote.Name = symbol
	}
	return quote, nil
}
