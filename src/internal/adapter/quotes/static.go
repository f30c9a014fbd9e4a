package quotes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

// StaticProvider serves a fixed price list. Prices can be changed at runtime
// with Set, which makes it usable as a deterministic market in tests and
// offline runs.
type StaticProvider struct {
	mu     sync.RWMutex
	quotes map[string]domain.Quote
}

func NewStaticProvider(quotes ...domain.Quote) *StaticProvider {
	p := &StaticProvider{quotes: make(map[string]domain.Quote, len(quotes))}
	for _, q := range quotes {
		p.Set(q)
	}
	return p
}

// ParseStaticQuotes reads a list of the form "AAA:Acme Corp:50.00,BBB::12".
// An empty name defaults to the symbol.
func ParseStaticQuotes(raw string) ([]domain.Quote, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	entries := strings.Split(raw, ",")
	out := make([]domain.Quote, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("static quote %q must look like SYMBOL:Name:Price", entry)
		}

		symbol := domain.NormalizeSymbol(parts[0])
		if symbol == "" {
			return nil, fmt.Errorf("static quote %q has no symbol", entry)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil || !price.IsPositive() {
			return nil, fmt.Errorf("static quote %q must have a positive price", entry)
		}
		name := strings.TrimSpace(parts[1])
		if name == "" {
			name = symbol
		}

		out = append(out, domain.Quote{Symbol: symbol, Name: name, Price: price})
	}
	return out, nil
}

func (p *StaticProvider) Set(q domain.Quote) {
	q.Symbol = domain.NormalizeSymbol(q.Symbol)
	q.Price = q.Price.Round(domain.MoneyScale)

	p.mu.Lock()
	p.quotes[q.Symbol] = q
	p.mu.Unlock()
}

func (p *StaticProvider) Lookup(ctx context.Context, symbol string) (domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return domain.Quote{}, domain.WrapError(domain.KindQuoteUnavailable, "Quote unavailable", err)
	}

	symbol = domain.NormalizeSymbol(symbol)
	p.mu.RLock()
	q, ok := p.quotes[symbol]
	p.mu.RUnlock()
	if !ok {
		return domain.Quote{}, domain.NewError(domain.KindUnknownSymbol, "Invalid symbol %q", symbol)
	}
	return q, nil
}
