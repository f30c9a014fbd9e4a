package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
)

func logRequest(r *http.Request, payload any) {
	logger.Info("http request", logger.Fields{
		"method":  r.Method,
		"path":    r.URL.Path,
		"query":   r.URL.RawQuery,
		"payload": logger.SanitizePayload(payload),
	})
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	logger.Info("http response", logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
		"response":   logger.SanitizePayload(payload),
	})
}

func logError(r *http.Request, err error, extra logger.Fields) {
	fields := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
	}
	for k, v := range extra {
		fields[k] = v
	}
	logger.Error("http handler error", err, fields)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps the kind carried by a service error to an HTTP status.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidOrder, domain.KindUnknownSymbol, domain.KindInsufficientFunds,
		domain.KindInsufficientShares, domain.KindNotOwned:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials:
		return http.StatusUnauthorized
	case domain.KindRecordNotFound:
		return http.StatusNotFound
	case domain.KindUsernameTaken, domain.KindConcurrencyConflict:
		return http.StatusConflict
	case domain.KindQuoteUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func protect(handler http.HandlerFunc, authMiddleware func(http.Handler) http.Handler) http.Handler {
	if authMiddleware == nil {
		return handler
	}
	return authMiddleware(handler)
}
