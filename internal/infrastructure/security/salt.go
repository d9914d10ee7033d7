package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

const saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSalt returns domain.SaltLength characters drawn uniformly from
// [A-Za-z0-9] using the system CSPRNG.
func GenerateSalt() (string, error) {
	max := big.NewInt(int64(len(saltAlphabet)))
	buf := make([]byte, domain.SaltLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generating salt: %w", err)
		}
		buf[i] = saltAlphabet[n.Int64()]
	}
	return string(buf), nil
}
