package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "paper-trading-engine"

type contextKey struct{}

type accountClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies the HS256 bearer tokens that carry the
// authenticated account id.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(accountID string, username string) (string, time.Time, error) {
	issuedAt := t.now().UTC()
	expiresAt := issuedAt.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accountClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify returns the account id carried by a valid, unexpired token.
func (t *Tokens) Verify(raw string) (string, error) {
	claims := &accountClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// BearerAuth admits requests with a valid "Authorization: Bearer <token>"
// header and stores the account id in the request context.
func BearerAuth(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				logger.Info("bearer auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": "missing",
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			accountID, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				logger.Info("bearer auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": "invalid",
					"reason":      err.Error(),
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, contextKey{}, accountID)
}

func AccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(contextKey{}).(string)
	return accountID, ok && accountID != ""
}
