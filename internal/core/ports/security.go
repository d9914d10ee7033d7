package ports

import (
	"context"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// PasswordHasher derives and checks keyed, salted password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, password, salt string) (string, error)
	Verify(ctx context.Context, encodedHash, password, salt string) (bool, error)
}

// SaltGenerator returns fresh per-account salt material.
type SaltGenerator func() (string, error)

// TokenIssuer signs claims into bearer tokens and verifies them.
type TokenIssuer interface {
	Issue(claims domain.Claims) (string, error)
	Verify(token string) (domain.Claims, error)
}
