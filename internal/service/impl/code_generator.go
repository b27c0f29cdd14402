package impl

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DigitCodeGenerator produces 6-digit verification codes drawn uniformly from
// [0, 10^6), zero-padded. One million combinations against a 15-minute window
// and the transport rate limit.
type DigitCodeGenerator struct {
	max *big.Int
}

func NewDigitCodeGenerator() *DigitCodeGenerator {
	return &DigitCodeGenerator{max: big.NewInt(1000000)}
}

func (g *DigitCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, g.max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
