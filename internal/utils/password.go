package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost = 12
	// bcrypt ignores everything past 72 bytes, so longer inputs are refused
	// instead of silently truncated.
	MaxPasswordBytes = 72
)

var (
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
)

// PasswordHasher hashes and verifies credentials. Digests are salted, so two
// hashes of the same input differ; use Verify, never string comparison.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return NewBcryptHasherWithCost(BcryptCost)
}

// NewBcryptHasherWithCost falls back to BcryptCost when cost is outside
// bcrypt's accepted range.
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = BcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// Verify reports whether password matches hash. A malformed hash yields false.
func (h *BcryptHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
