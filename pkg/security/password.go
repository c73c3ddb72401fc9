package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen applies when generating a hash, not when verifying.
const MinPasswordLen = 8

var ErrPasswordMismatch = errors.New("password does not match")

// Verifier checks a plaintext password against a stored hash. The
// admin login handler depends on this rather than on bcrypt directly.
type Verifier interface {
	Verify(storedHash, password string) error
}

type bcryptVerifier struct{}

func NewBcryptVerifier() Verifier {
	return bcryptVerifier{}
}

func (bcryptVerifier) Verify(storedHash, password string) error {
	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// HashPassword produces a bcrypt hash suitable for the admin
// password_hash config value.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
