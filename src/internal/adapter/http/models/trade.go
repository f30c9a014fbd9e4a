package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Quantity is a share count as typed by the user. It decodes from either a
// JSON string or a JSON number and is validated by Parse.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	if string(data) == "null" {
		*q = ""
		return nil
	}
	*q = Quantity(data)
	return nil
}

// Parse accepts base-10 digits only, so "1.5", "-2", "+3" and "1e2" are all
// rejected, and the result must be positive.
func (q Quantity) Parse() (int64, error) {
	raw := strings.TrimSpace(string(q))
	if raw == "" {
		return 0, domain.NewError(domain.KindInvalidOrder, "shares is required")
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, domain.NewError(domain.KindInvalidOrder, "shares must be a positive whole number")
		}
	}

	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.WrapError(domain.KindInvalidOrder, "shares is out of range", err)
	}
	if shares <= 0 {
		return 0, domain.NewError(domain.KindInvalidOrder, "shares must be a positive whole number")
	}
	return shares, nil
}

type TradeRequest struct {
	Symbol string   `json:"symbol"`
	Shares Quantity `json:"shares"`
}

// Parse returns the normalized symbol and the share count.
func (r TradeRequest) Parse() (string, int64, error) {
	symbol := domain.NormalizeSymbol(r.Symbol)
	if symbol == "" {
		return "", 0, domain.NewError(domain.KindInvalidOrder, "symbol is required")
	}

	shares, err := r.Shares.Parse()
	if err != nil {
		return "", 0, err
	}
	return symbol, shares, nil
}

type TradeConfirmation struct {
	TransactionID int64           `json:"transactionId"`
	Kind          string          `json:"kind"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Shares        int64           `json:"shares"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Total         decimal.Decimal `json:"total"`
	Cash          decimal.Decimal `json:"cash"`
	ExecutedAt    string          `json:"executedAt"`
	Message       string          `json:"message"`
}
