package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marketdesk/portfolio-api/internal/api/metrics"
	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// MarketRepository implements ports.MarketRepository. Every method runs one
// parameterized statement against the requested partition.
type MarketRepository struct {
	parts *Partitions
}

func NewMarketRepository(parts *Partitions) *MarketRepository {
	return &MarketRepository{parts: parts}
}

func (r *MarketRepository) Companies(ctx context.Context, p domain.Partition, limit int) ([]domain.Company, error) {
	return selectRows[domain.Company](ctx, r.parts, p, "company",
		withLimit(`SELECT ticker, name, sector, industry, mic FROM company`, limit))
}

func (r *MarketRepository) Exchanges(ctx context.Context, p domain.Partition) ([]domain.Exchange, error) {
	return selectRows[domain.Exchange](ctx, r.parts, p, "exchange",
		`SELECT mic, name FROM exchange`)
}

func (r *MarketRepository) Ledger(ctx context.Context, p domain.Partition, limit int) ([]domain.EndOfDay, error) {
	return selectRows[domain.EndOfDay](ctx, r.parts, p, "ledger",
		withLimit(`SELECT ticker, date, open, close, volume FROM ledger`, limit))
}

func (r *MarketRepository) Portfolio(ctx context.Context, p domain.Partition, accountID int32) ([]domain.PortfolioItem, error) {
	return selectRows[domain.PortfolioItem](ctx, r.parts, p, "portfolio",
		`SELECT account_id, ticker, amount, buy_price FROM portfolio WHERE account_id = $1`, accountID)
}

func (r *MarketRepository) PortfolioSample(ctx context.Context, p domain.Partition, limit int) ([]domain.PortfolioItem, error) {
	return selectRows[domain.PortfolioItem](ctx, r.parts, p, "portfolio",
		withLimit(`SELECT account_id, ticker, amount, buy_price FROM portfolio`, limit))
}

func (r *MarketRepository) AddPortfolioItem(ctx context.Context, p domain.Partition, item domain.PortfolioItem) (*domain.PortfolioItem, error) {
	rows, err := selectRows[domain.PortfolioItem](ctx, r.parts, p, "portfolio",
		`INSERT INTO portfolio (account_id, ticker, amount, buy_price)
		 VALUES ($1, $2, $3, $4)
		 RETURNING account_id, ticker, amount, buy_price`,
		item.AccountID, item.Ticker, item.Amount, item.BuyPrice)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *MarketRepository) RemovePortfolioItem(ctx context.Context, p domain.Partition, accountID int32, ticker string) ([]domain.PortfolioItem, error) {
	rows, err := selectRows[domain.PortfolioItem](ctx, r.parts, p, "portfolio",
		`DELETE FROM portfolio WHERE account_id = $1 AND ticker = $2
		 RETURNING account_id, ticker, amount, buy_price`,
		accountID, ticker)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrItemNotFound
	}
	return rows, nil
}

func (r *MarketRepository) WatchList(ctx context.Context, p domain.Partition, accountID int32) ([]domain.WatchItem, error) {
	return selectRows[domain.WatchItem](ctx, r.parts, p, "watch_list",
		`SELECT account_id, ticker FROM watch_list WHERE account_id = $1`, accountID)
}

func (r *MarketRepository) WatchListSample(ctx context.Context, p domain.Partition, limit int) ([]domain.WatchItem, error) {
	return selectRows[domain.WatchItem](ctx, r.parts, p, "watch_list",
		withLimit(`SELECT account_id, ticker FROM watch_list`, limit))
}

func (r *MarketRepository) AddWatchItem(ctx context.Context, p domain.Partition, item domain.WatchItem) (*domain.WatchItem, error) {
	rows, err := selectRows[domain.WatchItem](ctx, r.parts, p, "watch_list",
		`INSERT INTO watch_list (account_id, ticker) VALUES ($1, $2)
		 RETURNING account_id, ticker`,
		item.AccountID, item.Ticker)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *MarketRepository) RemoveWatchItem(ctx context.Context, p domain.Partition, accountID int32, ticker string) ([]domain.WatchItem, error) {
	rows, err := selectRows[domain.WatchItem](ctx, r.parts, p, "watch_list",
		`DELETE FROM watch_list WHERE account_id = $1 AND ticker = $2
		 RETURNING account_id, ticker`,
		accountID, ticker)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrItemNotFound
	}
	return rows, nil
}

// selectRows runs one statement and maps the result set onto T by column name.
func selectRows[T any](ctx context.Context, parts *Partitions, p domain.Partition, table, query string, args ...any) ([]T, error) {
	q, err := parts.Querier(p)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err == nil {
		var out []T
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		if err == nil {
			observe(p, table, nil)
			if out == nil {
				out = []T{}
			}
			return out, nil
		}
	}
	observe(p, table, err)

	switch {
	case isUniqueViolation(err):
		return nil, domain.ErrItemExists
	case isForeignKeyViolation(err):
		return nil, fmt.Errorf("%w: unknown ticker", domain.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
}

func withLimit(query string, limit int) string {
	if limit <= 0 {
		return query
	}
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

func observe(p domain.Partition, table string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StoreQueriesTotal.WithLabelValues(string(p), table, result).Inc()
}
