package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindBuy  TransactionKind = "buy"
	TransactionKindSell TransactionKind = "sell"
)

func (k TransactionKind) Valid() bool {
	return k == TransactionKindBuy || k == TransactionKindSell
}

// Transaction is one immutable ledger entry. Shares and UnitPrice are always
// positive; Kind carries the direction.
type Transaction struct {
	ID         int64
	AccountID  string
	Symbol     string
	Shares     int64
	UnitPrice  decimal.Decimal
	Kind       TransactionKind
	ExecutedAt time.Time
}

func (t Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(t.Shares))
}

func (t Transaction) SignedShares() int64 {
	if t.Kind == TransactionKindSell {
		return -t.Shares
	}
	return t.Shares
}

// TradePosting is a validated order ready to be committed by a ledger store
// together with its cash movement.
type TradePosting struct {
	AccountID  string
	Kind       TransactionKind
	Symbol     string
	Shares     int64
	UnitPrice  decimal.Decimal
	ExecutedAt time.Time
}

func (p TradePosting) Amount() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(p.Shares))
}

// Validate rejects postings that would break the ledger invariants: a known
// kind, a positive share count and a positive unit price.
func (p TradePosting) Validate() error {
	if !p.Kind.Valid() {
		return NewError(KindInvalidOrder, "unsupported transaction kind %q", p.Kind)
	}
	if p.Shares <= 0 {
		return NewError(KindInvalidOrder, "shares must be a positive whole number")
	}
	if !p.UnitPrice.IsPositive() {
		return NewError(KindInvalidOrder, "unit price must be positive, got %s", p.UnitPrice.String())
	}
	return nil
}

// CashDelta is negative for buys and positive for sells.
func (p TradePosting) CashDelta() decimal.Decimal {
	if p.Kind == TransactionKindBuy {
		return p.Amount().Neg()
	}
	return p.Amount()
}

func (p TradePosting) Transaction(id int64) Transaction {
	return Transaction{
		ID:         id,
		AccountID:  p.AccountID,
		Symbol:     p.Symbol,
		Shares:     p.Shares,
		UnitPrice:  p.UnitPrice,
		Kind:       p.Kind,
		ExecutedAt: p.ExecutedAt,
	}
}
