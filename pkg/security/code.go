package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeGenerator produces numeric one-time codes.
type CodeGenerator struct {
	digits int
}

func NewCodeGenerator(digits int) *CodeGenerator {
	if digits <= 0 {
		digits = 6
	}
	return &CodeGenerator{digits: digits}
}

// Generate returns a zero-padded random code of the configured length.
func (g *CodeGenerator) Generate() (string, error) {
	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(g.digits)), nil)

	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}

	return fmt.Sprintf("%0*d", g.digits, n), nil
}
