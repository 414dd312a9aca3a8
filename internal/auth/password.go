package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor: roughly 250ms per hash on current
// server hardware — negligible for a login, expensive for brute force.
const defaultCost = 12

// PasswordService hashes and verifies passwords with bcrypt. It's a struct
// rather than free functions so tests can inject a lower cost.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Tests use it with bcrypt.MinCost to keep hashing fast.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of password. bcrypt salts internally, so two
// equal passwords produce different hashes.
func (s *PasswordService) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("auth: password must not be empty")
	}
	// bcrypt silently truncates beyond 72 bytes; refuse instead.
	if len(password) > 72 {
		return "", errors.New("auth: password must be 72 bytes or fewer")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash.
func (s *PasswordService) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
