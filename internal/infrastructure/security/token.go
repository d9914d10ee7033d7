package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

var ErrEmptySigningSecret = errors.New("signing secret must not be empty")

// tokenClaims is the signed payload. Tokens carry no expiry: a token stays
// valid for as long as the signing secret is unchanged.
type tokenClaims struct {
	ID          int32                `json:"id"`
	SecurityLvl domain.SecurityLevel `json:"security_lvl"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	parser *jwt.Parser
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySigningSecret
	}
	return &TokenIssuer{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Issue signs claims into a compact token.
func (t *TokenIssuer) Issue(claims domain.Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		ID:          claims.ID,
		SecurityLvl: claims.SecurityLvl,
	})
	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and returns its claims. Every failure
// collapses into domain.ErrInvalidToken.
func (t *TokenIssuer) Verify(token string) (domain.Claims, error) {
	var tc tokenClaims
	parsed, err := t.parser.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	return domain.Claims{ID: tc.ID, SecurityLvl: tc.SecurityLvl}, nil
}
