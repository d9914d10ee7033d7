package ports

import (
	"context"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// AccountRepository persists accounts inside a chosen store partition.
type AccountRepository interface {
	// Create inserts the account atomically. A login that already exists in the
	// partition yields domain.ErrLoginUnavailable, whether it is detected by the
	// conflict clause or by a unique-constraint violation from a racing insert.
	Create(ctx context.Context, p domain.Partition, account *domain.Account) (*domain.Account, error)
	FindByLogin(ctx context.Context, p domain.Partition, login string) (*domain.Account, error)
	DeleteByLogin(ctx context.Context, p domain.Partition, login string) (*domain.Account, error)
	List(ctx context.Context, p domain.Partition) ([]domain.Account, error)
}
