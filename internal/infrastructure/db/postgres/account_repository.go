package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

const accountTable = "account"

// AccountRepository implements ports.AccountRepository on the partition pools.
type AccountRepository struct {
	parts *Partitions
}

func NewAccountRepository(parts *Partitions) *AccountRepository {
	return &AccountRepository{parts: parts}
}

// EnsureIndexes creates the login uniqueness index on every partition. The
// registration insert relies on it for its conflict target.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	for _, p := range domain.Partitions {
		q, err := r.parts.Querier(p)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS account_login_key ON account (login)`); err != nil {
			return fmt.Errorf("partition %s: ensure account index: %w", p, err)
		}
	}
	return nil
}

// Create inserts the account. The ON CONFLICT clause makes the uniqueness
// check and the insert a single statement; a racing insert that still trips
// the index is reported the same way.
func (r *AccountRepository) Create(ctx context.Context, p domain.Partition, account *domain.Account) (*domain.Account, error) {
	q, err := r.parts.Querier(p)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO account (login, hashed_password, salt, security_lvl)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (login) DO NOTHING
		 RETURNING id, login, security_lvl`

	created := &domain.Account{}
	err = q.QueryRow(ctx, query,
		account.Login, account.HashedPassword, account.Salt, account.SecurityLvl,
	).Scan(&created.ID, &created.Login, &created.SecurityLvl)
	observe(p, accountTable, err)

	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, pgx.ErrNoRows), isUniqueViolation(err):
		return nil, domain.ErrLoginUnavailable
	default:
		return nil, fmt.Errorf("insert account: %w", err)
	}
}

func (r *AccountRepository) FindByLogin(ctx context.Context, p domain.Partition, login string) (*domain.Account, error) {
	q, err := r.parts.Querier(p)
	if err != nil {
		return nil, err
	}

	query :=
		`SELECT id, login, hashed_password, salt, security_lvl FROM account
		 WHERE login = $1`

	a := &domain.Account{}
	err = q.QueryRow(ctx, query, login).Scan(&a.ID, &a.Login, &a.HashedPassword, &a.Salt, &a.SecurityLvl)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(p, accountTable, nil)
		return nil, domain.ErrAccountNotFound
	}
	observe(p, accountTable, err)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) DeleteByLogin(ctx context.Context, p domain.Partition, login string) (*domain.Account, error) {
	q, err := r.parts.Querier(p)
	if err != nil {
		return nil, err
	}

	query :=
		`DELETE FROM account WHERE login = $1
		 RETURNING id, login, security_lvl`

	a := &domain.Account{}
	err = q.QueryRow(ctx, query, login).Scan(&a.ID, &a.Login, &a.SecurityLvl)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(p, accountTable, nil)
		return nil, domain.ErrAccountNotFound
	}
	observe(p, accountTable, err)
	if err != nil {
		return nil, fmt.Errorf("delete account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) List(ctx context.Context, p domain.Partition) ([]domain.Account, error) {
	q, err := r.parts.Querier(p)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT id, login, security_lvl FROM account ORDER BY id`)
	if err != nil {
		observe(p, accountTable, err)
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		var a domain.Account
		err := row.Scan(&a.ID, &a.Login, &a.SecurityLvl)
		return a, err
	})
	observe(p, accountTable, err)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}
