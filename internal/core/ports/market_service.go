package ports

import (
	"context"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// PortfolioItemInput carries a new position for the calling account.
type PortfolioItemInput struct {
	Ticker   string
	Amount   float32
	BuyPrice float32
}

// MarketService exposes the business-data reads and writes. Authenticated
// calls are routed by the caller's claims; the sample calls read the public
// partition.
type MarketService interface {
	Companies(ctx context.Context, caller domain.Claims) ([]domain.Company, error)
	CompaniesSample(ctx context.Context) ([]domain.Company, error)
	Exchanges(ctx context.Context, caller domain.Claims) ([]domain.Exchange, error)
	Ledger(ctx context.Context, caller domain.Claims) ([]domain.EndOfDay, error)
	LedgerSample(ctx context.Context) ([]domain.EndOfDay, error)

	Portfolio(ctx context.Context, caller domain.Claims) ([]domain.PortfolioItem, error)
	PortfolioSample(ctx context.Context) ([]domain.PortfolioItem, error)
	AddPortfolioItem(ctx context.Context, caller domain.Claims, in PortfolioItemInput) (*domain.PortfolioItem, error)
	RemovePortfolioItem(ctx context.Context, caller domain.Claims, ticker string) ([]domain.PortfolioItem, error)

	WatchList(ctx context.Context, caller domain.Claims) ([]domain.WatchItem, error)
	WatchListSample(ctx context.Context) ([]domain.WatchItem, error)
	AddWatchItem(ctx context.Context, caller domain.Claims, ticker string) (*domain.WatchItem, error)
	RemoveWatchItem(ctx context.Context, caller domain.Claims, ticker string) ([]domain.WatchItem, error)
}
