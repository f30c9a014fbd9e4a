package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/shopspring/decimal"
)

const defaultAlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageProvider uses the GLOBAL_QUOTE function. The endpoint carries no
// company name, so quotes are named after their symbol.
type AlphaVantageProvider struct {
	baseURL string
	apiKey  string
	cli     *http.Client
}

func NewAlphaVantageProvider(baseURL string, apiKey string, timeout time.Duration) *AlphaVantageProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultAlphaVantageBaseURL
	}
	return &AlphaVantageProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		cli:     &http.Client{Timeout: timeout},
	}
}

func (p *AlphaVantageProvider) Lookup(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if !validSymbol(symbol) {
		return domain.Quote{}, domain.NewError(domain.KindUnknownSymbol, "Invalid symbol %q", symbol)
	}

	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)
	query.Set("apikey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/query?"+query.Encode(), nil)
	if err != nil {
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.cli.Do(req)
	if err != nil {
		logger.Error("alphavantage quote request failed", err, logger.Fields{
			"symbol": symbol,
		})
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable for "+symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable for "+symbol, fmt.Errorf("alphavantage http %d", resp.StatusCode))
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable for "+symbol, err)
	}
	// Rate limiting is reported in-band with a 200.
	if _, ok := raw["Note"]; ok {
		return domain.Quote{}, domain.NewError(domain.KindQuoteUnavailable, "Quote provider rate limit reached")
	}
	if _, ok := raw["Information"]; ok {
		return domain.Quote{}, domain.NewError(domain.KindQuoteUnavailable, "Quote provider rate limit reached")
	}

	var global map[string]string
	if body, ok := raw["Global Quote"]; ok {
		_ = json.Unmarshal(body, &global)
	}
	if len(global) == 0 {
		return domain.Quote{}, domain.NewError(domain.KindUnknownSymbol, "Invalid symbol %q", symbol)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(global["05. price"]))
	if err != nil || !price.IsPositive() {
		return domain.Quote{}, domain.NewError(domain.KindQuoteUnavailable, "No price available for %s", symbol)
	}

	quote := domain.Quote{
		Symbol: symbol,
		Name:   symbol,
		Price:  price.Round(domain.MoneyScale),
	}

	logger.Info("alphavantage quote lookup success", logger.Fields{
		"symbol": quote.Symbol,
		"price":  quote.Price,
	})

	return quote, nil
}
