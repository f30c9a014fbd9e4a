package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrInvalidOrder:                                      http.StatusBadRequest,
		domain.ErrUnknownSymbol:                                     http.StatusBadRequest,
		domain.ErrInsufficientFunds:                                 http.StatusBadRequest,
		domain.ErrInsufficientShares:                                http.StatusBadRequest,
		domain.ErrNotOwned:                                          http.StatusBadRequest,
		domain.ErrInvalidCredentials:                                http.StatusUnauthorized,
		domain.ErrRecordNotFound:                                    http.StatusNotFound,
		domain.ErrUsernameTaken:                                     http.StatusConflict,
		domain.ErrConcurrencyConflict:                               http.StatusConflict,
		domain.ErrQuoteUnavailable:                                  http.StatusServiceUnavailable,
		errors.New("disk full"):                                     http.StatusInternalServerError,
		fmt.Errorf("post trade: %w", domain.ErrConcurrencyConflict): http.StatusConflict,
	}

	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Fatalf("expected status %d for %v, got %d", want, err, got)
		}
	}
}
