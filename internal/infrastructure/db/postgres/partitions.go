package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// Partitions holds one connection pool per store partition.
type Partitions struct {
	queriers map[domain.Partition]Querier
	pools    []*pgxpool.Pool
}

// NewPartitions wraps already-open queriers. It is mainly useful in tests;
// ConnectPartitions is the production constructor.
func NewPartitions(queriers map[domain.Partition]Querier) *Partitions {
	return &Partitions{queriers: queriers}
}

// ConnectPartitions opens the four partition pools concurrently. Every
// connection string is checked before any pool is opened. If any partition
// fails, the pools that did open are closed again.
func ConnectPartitions(ctx context.Context, dsns map[domain.Partition]string, maxConns int32) (*Partitions, error) {
	for _, p := range domain.Partitions {
		if dsns[p] == "" {
			return nil, fmt.Errorf("partition %s: missing connection string", p)
		}
	}

	var (
		mu    sync.Mutex
		pools = make(map[domain.Partition]*pgxpool.Pool, len(domain.Partitions))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range domain.Partitions {
		dsn := dsns[p]
		g.Go(func() error {
			pool, err := Connect(gctx, Config{DSN: dsn, MaxConns: maxConns})
			if err != nil {
				return fmt.Errorf("partition %s: %w", p, err)
			}
			mu.Lock()
			pools[p] = pool
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, pool := range pools {
			pool.Close()
		}
		return nil, err
	}

	parts := &Partitions{queriers: make(map[domain.Partition]Querier, len(pools))}
	for p, pool := range pools {
		parts.queriers[p] = pool
		parts.pools = append(parts.pools, pool)
	}
	return parts, nil
}

// Querier returns the pool serving p.
func (ps *Partitions) Querier(p domain.Partition) (Querier, error) {
	q, ok := ps.queriers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPartition, p)
	}
	return q, nil
}

// Ping checks a single partition. It backs the readiness probe.
func (ps *Partitions) Ping(ctx context.Context, p domain.Partition) error {
	q, err := ps.Querier(p)
	if err != nil {
		return err
	}
	if pinger, ok := q.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	_, err = q.Exec(ctx, "SELECT 1")
	return err
}

// Close closes every pool opened by ConnectPartitions.
func (ps *Partitions) Close() {
	for _, pool := range ps.pools {
		pool.Close()
	}
}
