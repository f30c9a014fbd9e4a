package models

import (
	"errors"
	"strings"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

func (r RegisterRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	if r.Confirmation == "" {
		errs = append(errs, "confirmation is required")
	} else if r.Password != r.Confirmation {
		errs = append(errs, "passwords do not match")
	}

	return invalidOrder(errs)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}

	return invalidOrder(errs)
}

type LoginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"tokenType"`
	ExpiresAt string          `json:"expiresAt"`
	Account   AccountResponse `json:"account"`
}

// maxDeposit bounds a single deposit.
var maxDeposit = decimal.NewFromInt(1_000_000_000)

type DepositCashRequest struct {
	Amount string `json:"amount"`
}

// ParseAmount returns the deposit rounded to domain.MoneyScale. The rounded
// value must still be positive.
func (r DepositCashRequest) ParseAmount() (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.Amount)
	if raw == "" {
		return decimal.Zero, domain.NewError(domain.KindInvalidOrder, "amount is required")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewError(domain.KindInvalidOrder, "amount must be numeric")
	}
	amount = amount.Round(domain.MoneyScale)
	if !amount.IsPositive() {
		return decimal.Zero, domain.NewError(domain.KindInvalidOrder, "amount must be greater than zero")
	}
	if amount.GreaterThan(maxDeposit) {
		return decimal.Zero, domain.NewError(domain.KindInvalidOrder, "amount cannot exceed %s", maxDeposit.String())
	}
	return amount, nil
}

type AccountResponse struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Cash        decimal.Decimal `json:"cash"`
	CashDisplay string          `json:"cashDisplay"`
	CreatedAt   string          `json:"createdAt"`
}

func invalidOrder(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return domain.WrapError(domain.KindInvalidOrder, "validation failed", errors.New(strings.Join(errs, "; ")))
}
