package implementations

import (
	"errors"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

func isConcurrencyFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	switch string(pqErr.Code) {
	case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable:
		return true
	default:
		return false
	}
}

// mapPostingError turns lock and serialization failures into
// ErrConcurrencyConflict and leaves everything else untouched.
func mapPostingError(err error) error {
	if err == nil {
		return nil
	}
	if isConcurrencyFailure(err) {
		return domain.WrapError(domain.KindConcurrencyConflict, "account is being updated concurrently", err)
	}
	return err
}
