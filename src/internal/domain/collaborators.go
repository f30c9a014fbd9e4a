package domain

import "time"

type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) bool
}

type Clock interface {
	Now() time.Time
}
