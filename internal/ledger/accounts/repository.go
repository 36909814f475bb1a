package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caderno/caderno/internal/ledger/shared"
	"github.com/caderno/caderno/internal/platform/db"
)

// Repository encapsulates persistence for accounts. WithTx scopes the other
// operations to one transaction, so read-validate-write sequences see a
// stable chart.
type Repository interface {
	ListAll(ctx context.Context) ([]Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	Create(ctx context.Context, a Account) (Account, error)
	Update(ctx context.Context, a Account) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	WithTx(ctx context.Context, fn func(Repository) error) error
}

// querier is the slice of pgxpool.Pool and pgx.Tx the queries need.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repository struct {
	db   querier
	pool *pgxpool.Pool
}

// NewRepository returns the pgx-backed account repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

// WithTx runs fn against a transaction-scoped repository. A repository that
// is already transaction-scoped reuses its transaction.
func (r *repository) WithTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&repository{db: tx})
	})
}

const accountColumns = `id, parent_id, sequence, description, nature, type, accepts_opposite_side, active, system_managed, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.ParentID, &a.Sequence, &a.Description, &a.Nature, &a.Type,
		&a.AcceptsOppositeSide, &a.Active, &a.SystemManaged, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *repository) ListAll(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM ledger_accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM ledger_accounts WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, id)
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, a Account) (Account, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO ledger_accounts
(parent_id, sequence, description, nature, type, accepts_opposite_side, active, system_managed)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id, created_at, updated_at`,
		a.ParentID, a.Sequence, a.Description, a.Nature, a.Type, a.AcceptsOppositeSide, a.Active, a.SystemManaged)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_ledger_accounts_parent_sequence" {
			return Account{}, fmt.Errorf("%w: sequence %d already taken under this parent", shared.ErrValidation, a.Sequence)
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Update(ctx context.Context, a Account) error {
	cmd, err := r.db.Exec(ctx, `UPDATE ledger_accounts
SET description=$2, type=$3, accepts_opposite_side=$4, active=$5, updated_at=NOW()
WHERE id=$1`,
		a.ID, a.Description, a.Type, a.AcceptsOppositeSide, a.Active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, a.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM ledger_accounts WHERE id=$1`, id)
	if err != nil {
		// Children or entries still reference the account.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: account is still referenced", shared.ErrNotDeletable)
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, id)
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_accounts`).Scan(&n)
	return n, err
}
