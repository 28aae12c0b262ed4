package secret

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Generator implements domain.SecretCodeGenerator using crypto/rand for code
// generation and bcrypt for hashing, matching how account passwords are
// hashed elsewhere in the system.
type Generator struct{}

// NewGenerator creates a new secret code generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate produces a random numeric code of exactly length digits,
// left-zero-padded. length 6 covers 000000 through 999999.
func (g *Generator) Generate(length int) (string, error) {
	if length < 1 || length > 18 {
		return "", fmt.Errorf("invalid code length %d", length)
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}

	return fmt.Sprintf("%0*d", length, n), nil
}

// Hash produces a salted bcrypt hash of a plaintext code
func (g *Generator) Hash(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks a plaintext code against its hash. Comparison goes through
// bcrypt, never string equality on the plaintext.
func (g *Generator) Verify(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
