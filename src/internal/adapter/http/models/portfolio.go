package models

import "github.com/shopspring/decimal"

type HoldingValuation struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Shares       int64           `json:"shares"`
	Price        decimal.Decimal `json:"price"`
	Value        decimal.Decimal `json:"value"`
	ValueDisplay string          `json:"valueDisplay"`
}

type PortfolioResponse struct {
	Holdings     []HoldingValuation `json:"holdings"`
	Cash         decimal.Decimal    `json:"cash"`
	CashDisplay  string             `json:"cashDisplay"`
	Total        decimal.Decimal    `json:"total"`
	TotalDisplay string             `json:"totalDisplay"`
}

type TransactionEntry struct {
	ID         int64           `json:"id"`
	Kind       string          `json:"kind"`
	Symbol     string          `json:"symbol"`
	Shares     int64           `json:"shares"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Total      decimal.Decimal `json:"total"`
	ExecutedAt string          `json:"executedAt"`
}

type HistoryResponse struct {
	Transactions []TransactionEntry `json:"transactions"`
}

type QuoteResponse struct {
	Symbol  string          `json:"symbol"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Display string          `json:"display"`
}
