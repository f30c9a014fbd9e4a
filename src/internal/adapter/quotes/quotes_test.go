package quotes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

func TestYahooProviderLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL","longName":"Apple Inc.","regularMarketPrice":189.98765}}],"error":null}}`))
	}))
	defer srv.Close()

	p := NewYahooProvider(srv.URL, time.Second)
	q, err := p.Lookup(context.Background(), " aapl ")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if q.Symbol != "AAPL" || q.Name != "Apple Inc." {
		t.Fatalf("unexpected quote %+v", q)
	}
	if !q.Price.Equal(decimal.RequireFromString("189.9877")) {
		t.Fatalf("expected price rounded to 189.9877, got %s", q.Price)
	}
}

func TestYahooProviderUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := NewYahooProvider(srv.URL, time.Second).Lookup(context.Background(), "ZZZZ")
	if !errors.Is(err, domain.ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestYahooProviderUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewYahooProvider(srv.URL, time.Second).Lookup(context.Background(), "AAPL")
	if !errors.Is(err, domain.ErrQuoteUnavailable) {
		t.Fatalf("expected ErrQuoteUnavailable, got %v", err)
	}
}

func TestYahooProviderRejectsMalformedSymbol(t *testing.T) {
	p := NewYahooProvider("http://127.0.0.1:0", time.Second)

	for _, symbol := range []string{"", "AA PL", "AAPL/../x", strings.Repeat("A", 17)} {
		if _, err := p.Lookup(context.Background(), symbol); !errors.Is(err, domain.ErrUnknownSymbol) {
			t.Fatalf("expected ErrUnknownSymbol for %q, got %v", symbol, err)
		}
	}
}

func TestAlphaVantageProviderLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "key" || r.URL.Query().Get("symbol") != "MSFT" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"Global Quote":{"01. symbol":"MSFT","05. price":"410.2500","07. latest trading day":"2024-05-01"}}`))
	}))
	defer srv.Close()

	q, err := NewAlphaVantageProvider(srv.URL, "key", time.Second).Lookup(context.Background(), "msft")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if q.Symbol != "MSFT" || !q.Price.Equal(decimal.RequireFromString("410.25")) {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestAlphaVantageProviderErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"empty quote": {`{"Global Quote":{}}`, domain.ErrUnknownSymbol},
		"rate limit":  {`{"Note":"Thank you for using Alpha Vantage!"}`, domain.ErrQuoteUnavailable},
		"bad price":   {`{"Global Quote":{"05. price":"n/a"}}`, domain.ErrQuoteUnavailable},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewAlphaVantageProvider(srv.URL, "key", time.Second).Lookup(context.Background(), "MSFT")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseStaticQuotes(t *testing.T) {
	got, err := ParseStaticQuotes("aaa:Acme Corp:50, BBB::12.5")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(got))
	}
	if got[0].Symbol != "AAA" || got[0].Name != "Acme Corp" || !got[0].Price.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected first quote %+v", got[0])
	}
	if got[1].Name != "BBB" {
		t.Fatalf("expected name to default to symbol, got %q", got[1].Name)
	}

	for _, bad := range []string{"AAA:50", ":x:1", "AAA:x:-1", "AAA:x:abc"} {
		if _, err := ParseStaticQuotes(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestStaticProviderLookup(t *testing.T) {
	p := NewStaticProvider(domain.Quote{Symbol: "aaa", Name: "Acme", Price: decimal.NewFromInt(50)})

	q, err := p.Lookup(context.Background(), "AAA")
	if err != nil || !q.Price.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected AAA at 50, got %+v (err %v)", q, err)
	}

	p.Set(domain.Quote{Symbol: "AAA", Name: "Acme", Price: decimal.NewFromInt(60)})
	q, _ = p.Lookup(context.Background(), "aaa")
	if !q.Price.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected updated price 60, got %s", q.Price)
	}

	if _, err := p.Lookup(context.Background(), "ZZZ"); !errors.Is(err, domain.ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}
