package sqlite

import (
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Money columns are stored as text so the exact decimal survives the round
// trip; SQLite would otherwise coerce them to REAL.
type accountRecord struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)"`
	Username     string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"not null"`
	Cash         decimal.Decimal `gorm:"type:text;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (accountRecord) TableName() string {
	return "accounts"
}

func (r accountRecord) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Cash:         r.Cash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type transactionRecord struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	AccountID  string          `gorm:"type:varchar(36);not null;index:idx_transactions_account_symbol,priority:1"`
	Symbol     string          `gorm:"type:varchar(16);not null;index:idx_transactions_account_symbol,priority:2"`
	Shares     int64           `gorm:"not null;check:shares > 0"`
	UnitPrice  decimal.Decimal `gorm:"type:text;not null"`
	Kind       string          `gorm:"type:varchar(4);not null"`
	ExecutedAt time.Time       `gorm:"not null"`
}

func (transactionRecord) TableName() string {
	return "transactions"
}

func (r transactionRecord) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:         r.ID,
		AccountID:  r.AccountID,
		Symbol:     r.Symbol,
		Shares:     r.Shares,
		UnitPrice:  r.UnitPrice,
		Kind:       domain.TransactionKind(r.Kind),
		ExecutedAt: r.ExecutedAt.UTC(),
	}
}

type holdingRow struct {
	Symbol string
	Shares int64
}
