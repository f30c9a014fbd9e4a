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

const defaultYahooBaseURL = "https://query2.finance.yahoo.com"

const userAgent = "paper-trading-engine/1.0"

// YahooProvider reads the last traded price from the Yahoo Finance v8 chart
// endpoint. Every call goes to the network; prices are never cached.
type YahooProvider struct {
	baseURL string
	cli     *http.Client
}

func NewYahooProvider(baseURL string, timeout time.Duration) *YahooProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultYahooBaseURL
	}
	return &YahooProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		cli:     &http.Client{Timeout: timeout},
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string          `json:"symbol"`
				LongName           string          `json:"longName"`
				ShortName          string          `json:"shortName"`
				RegularMarketPrice decimal.Decimal `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) Lookup(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if !validSymbol(symbol) {
		return domain.Quote{}, domain.NewError(domain.KindUnknownSymbol, "Invalid symbol %q", symbol)
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", p.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.cli.Do(req)
	if err != nil {
		logger.Error("yahoo quote request failed", err, logger.Fields{
			"symbol": symbol,
		})
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable for "+symbol, err)
	}
	defer resp.Body.Close()

	var raw yahooChartResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&raw)

	if resp.StatusCode == http.StatusNotFound {
		return domain.Quote{}, domain.NewError(domain.KindUnknownSymbol, "Invalid symbol %q", symbol)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("yahoo http %d", resp.StatusCode)
		logger.Error("yahoo quote request failed", err, logger.Fields{
			"symbol": symbol,
		})
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable for "+symbol, err)
	}
	if decodeErr != nil {
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable for "+symbol, decodeErr)
	}
	if raw.Chart.Error != nil || len(raw.Chart.Result) == 0 {
		return domain.Quote{}, domain.NewError(domain.KindUnknownSymbol, "Invalid symbol %q", symbol)
	}

	meta := raw.Chart.Result[0].Meta
	if !meta.RegularMarketPrice.IsPositive() {
		return domain.Quote{}, domain.NewError(domain.KindQuoteUnavailable, "No price available for %s", symbol)
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = symbol
	}

	quote := domain.Quote{
		Symbol: symbol,
		Name:   name,
		Price:  meta.RegularMarketPrice.Round(domain.MoneyScale),
	}

	logger.Info("yahoo quote lookup success", logger.Fields{
		"symbol": quote.Symbol,
		"price":  quote.Price,
	})

	return quote, nil
}

// validSymbol accepts the characters that appear in exchange tickers, such as
// BRK.B, BF-B or ^GSPC.
func validSymbol(symbol string) bool {
	if symbol == "" || len(symbol) > 16 {
		return false
	}
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '^', r == '=':
		default:
			return false
		}
	}
	return true
}
