package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           string
	Username     string
	PasswordHash string
	Cash         decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
