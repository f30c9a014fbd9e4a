package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type ErrorKind string

const (
	KindInvalidOrder        ErrorKind = "INVALID_ORDER"
	KindUnknownSymbol       ErrorKind = "UNKNOWN_SYMBOL"
	KindQuoteUnavailable    ErrorKind = "QUOTE_UNAVAILABLE"
	KindInsufficientFunds   ErrorKind = "INSUFFICIENT_FUNDS"
	KindInsufficientShares  ErrorKind = "INSUFFICIENT_SHARES"
	KindNotOwned            ErrorKind = "NOT_OWNED"
	KindUsernameTaken       ErrorKind = "USERNAME_TAKEN"
	KindInvalidCredentials  ErrorKind = "INVALID_CREDENTIALS"
	KindConcurrencyConflict ErrorKind = "CONCURRENCY_CONFLICT"
	KindRecordNotFound      ErrorKind = "RECORD_NOT_FOUND"
)

// Error is a business-rule failure tagged with its kind. Two Errors match
// under errors.Is when their kinds are equal, so callers can compare against
// the sentinels below regardless of the message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidOrder        = &Error{Kind: KindInvalidOrder, Message: "Invalid order"}
	ErrUnknownSymbol       = &Error{Kind: KindUnknownSymbol, Message: "Unknown symbol"}
	ErrQuoteUnavailable    = &Error{Kind: KindQuoteUnavailable, Message: "Quote unavailable"}
	ErrInsufficientFunds   = &Error{Kind: KindInsufficientFunds, Message: "Insufficient funds"}
	ErrInsufficientShares  = &Error{Kind: KindInsufficientShares, Message: "Insufficient shares"}
	ErrNotOwned            = &Error{Kind: KindNotOwned, Message: "Symbol not owned"}
	ErrUsernameTaken       = &Error{Kind: KindUsernameTaken, Message: "Username already exists"}
	ErrInvalidCredentials  = &Error{Kind: KindInvalidCredentials, Message: "Invalid username and/or password"}
	ErrConcurrencyConflict = &Error{Kind: KindConcurrencyConflict, Message: "Concurrent update conflict"}
	ErrRecordNotFound      = &Error{Kind: KindRecordNotFound, Message: "Record not found"}
)

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func InsufficientFundsError(need, have decimal.Decimal) *Error {
	return NewError(KindInsufficientFunds, "Insufficient funds: need %s, have %s", need.StringFixed(2), have.StringFixed(2))
}

func NotOwnedError(symbol string) *Error {
	return NewError(KindNotOwned, "You do not own any shares of %s", symbol)
}

func InsufficientSharesError(symbol string, held, requested int64) *Error {
	return NewError(KindInsufficientShares, "Insufficient shares of %s: have %d, tried to sell %d", symbol, held, requested)
}
