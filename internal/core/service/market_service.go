package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
)

// Row limits of the unauthenticated preview reads.
const (
	companiesSampleSize = 5
	ledgerSampleSize    = 5
	portfolioSampleSize = 1
	watchSampleSize     = 1

	maxTickerLen = 16
)

// MarketService implements ports.MarketService. Every authenticated call is
// served by the partition routed from the caller's security level.
type MarketService struct {
	repo   ports.MarketRepository
	public domain.Partition
	log    zerolog.Logger
}

func NewMarketService(repo ports.MarketRepository, public domain.Partition, log zerolog.Logger) *MarketService {
	if public == "" {
		public = domain.PartitionAdmin
	}
	return &MarketService{
		repo:   repo,
		public: public,
		log:    log,
	}
}

func (s *MarketService) Companies(ctx context.Context, caller domain.Claims) ([]domain.Company, error) {
	return s.repo.Companies(ctx, domain.Route(caller.SecurityLvl), 0)
}

func (s *MarketService) CompaniesSample(ctx context.Context) ([]domain.Company, error) {
	return s.repo.Companies(ctx, s.public, companiesSampleSize)
}

func (s *MarketService) Exchanges(ctx context.Context, caller domain.Claims) ([]domain.Exchange, error) {
	return s.repo.Exchanges(ctx, domain.Route(caller.SecurityLvl))
}

func (s *MarketService) Ledger(ctx context.Context, caller domain.Claims) ([]domain.EndOfDay, error) {
	return s.repo.Ledger(ctx, domain.Route(caller.SecurityLvl), 0)
}

func (s *MarketService) LedgerSample(ctx context.Context) ([]domain.EndOfDay, error) {
	return s.repo.Ledger(ctx, s.public, ledgerSampleSize)
}

func (s *MarketService) Portfolio(ctx context.Context, caller domain.Claims) ([]domain.PortfolioItem, error) {
	return s.repo.Portfolio(ctx, domain.Route(caller.SecurityLvl), caller.ID)
}

func (s *MarketService) PortfolioSample(ctx context.Context) ([]domain.PortfolioItem, error) {
	return s.repo.PortfolioSample(ctx, s.public, portfolioSampleSize)
}

// AddPortfolioItem records a position for the calling account.
func (s *MarketService) AddPortfolioItem(ctx context.Context, caller domain.Claims, in ports.PortfolioItemInput) (*domain.PortfolioItem, error) {
	ticker, err := normalizeTicker(in.Ticker)
	if err != nil {
		return nil, err
	}
	if in.Amount <= 0 || in.BuyPrice <= 0 {
		return nil, fmt.Errorf("%w: amount and buy_price must be positive", domain.ErrInvalidInput)
	}

	item, err := s.repo.AddPortfolioItem(ctx, domain.Route(caller.SecurityLvl), domain.PortfolioItem{
		AccountID: caller.ID,
		Ticker:    ticker,
		Amount:    in.Amount,
		BuyPrice:  in.BuyPrice,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int32("account_id", caller.ID).Str("ticker", ticker).Msg("portfolio item added")
	return item, nil
}

// RemovePortfolioItem deletes the caller's positions in ticker and returns them.
func (s *MarketService) RemovePortfolioItem(ctx context.Context, caller domain.Claims, ticker string) ([]domain.PortfolioItem, error) {
	ticker, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	return s.repo.RemovePortfolioItem(ctx, domain.Route(caller.SecurityLvl), caller.ID, ticker)
}

func (s *MarketService) WatchList(ctx context.Context, caller domain.Claims) ([]domain.WatchItem, error) {
	return s.repo.WatchList(ctx, domain.Route(caller.SecurityLvl), caller.ID)
}

func (s *MarketService) WatchListSample(ctx context.Context) ([]domain.WatchItem, error) {
	return s.repo.WatchListSample(ctx, s.public, watchSampleSize)
}

func (s *MarketService) AddWatchItem(ctx context.Context, caller domain.Claims, ticker string) (*domain.WatchItem, error) {
	ticker, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	return s.repo.AddWatchItem(ctx, domain.Route(caller.SecurityLvl), domain.WatchItem{
		AccountID: caller.ID,
		Ticker:    ticker,
	})
}

func (s *MarketService) RemoveWatchItem(ctx context.Context, caller domain.Claims, ticker string) ([]domain.WatchItem, error) {
	ticker, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	return s.repo.RemoveWatchItem(ctx, domain.Route(caller.SecurityLvl), caller.ID, ticker)
}

func normalizeTicker(t string) (string, error) {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" || len(t) > maxTickerLen {
		return "", fmt.Errorf("%w: ticker must be 1-%d characters", domain.ErrInvalidInput, maxTickerLen)
	}
	return t, nil
}
