package ports

import (
	"context"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// MarketRepository runs single-statement reads and writes against the
// business-data tables of a partition. A limit <= 0 means no limit.
type MarketRepository interface {
	Companies(ctx context.Context, p domain.Partition, limit int) ([]domain.Company, error)
	Exchanges(ctx context.Context, p domain.Partition) ([]domain.Exchange, error)
	Ledger(ctx context.Context, p domain.Partition, limit int) ([]domain.EndOfDay, error)

	Portfolio(ctx context.Context, p domain.Partition, accountID int32) ([]domain.PortfolioItem, error)
	PortfolioSample(ctx context.Context, p domain.Partition, limit int) ([]domain.PortfolioItem, error)
	AddPortfolioItem(ctx context.Context, p domain.Partition, item domain.PortfolioItem) (*domain.PortfolioItem, error)
	RemovePortfolioItem(ctx context.Context, p domain.Partition, accountID int32, ticker string) ([]domain.PortfolioItem, error)

	WatchList(ctx context.Context, p domain.Partition, accountID int32) ([]domain.WatchItem, error)
	WatchListSample(ctx context.Context, p domain.Partition, limit int) ([]domain.WatchItem, error)
	AddWatchItem(ctx context.Context, p domain.Partition, item domain.WatchItem) (*domain.WatchItem, error)
	RemoveWatchItem(ctx context.Context, p domain.Partition, accountID int32, ticker string) ([]domain.WatchItem, error)
}
