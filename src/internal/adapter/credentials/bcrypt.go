package credentials

import (
	"errors"
	"fmt"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", domain.NewError(domain.KindInvalidOrder, "password must be at most %d bytes", maxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.WrapError(domain.KindInvalidOrder, "password is too long", err)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
