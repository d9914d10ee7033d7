package ports

import (
	"context"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// AccountService registers accounts, authenticates them and performs the
// administrative account operations.
type AccountService interface {
	Register(ctx context.Context, login, password string) (*domain.Account, error)
	RegisterWithLevel(ctx context.Context, caller domain.Claims, login, password string, lvl domain.SecurityLevel) (*domain.Account, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	Delete(ctx context.Context, caller domain.Claims, login string) (*domain.Account, error)
	List(ctx context.Context, caller domain.Claims) ([]domain.Account, error)
}
