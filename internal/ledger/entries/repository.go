package entries

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/caderno/caderno/internal/ledger/shared"
)

// Repository encapsulates persistence for ledger entries. It also serves the
// account package's EntryReader needs (sums and counts per account).
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id int64) (Entry, error)
	Create(ctx context.Context, e Entry) (Entry, error)
	Update(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id int64) error
	FindByCreditAccount(ctx context.Context, accountID int64) ([]Entry, error)
	FindByDebitAccount(ctx context.Context, accountID int64) ([]Entry, error)
	EffectiveSums(ctx context.Context, accountID int64) (credits, debits decimal.Decimal, err error)
	CountByAccount(ctx context.Context, accountID int64) (int64, error)
	EffectuateDue(ctx context.Context, asOf string) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the pgx-backed entry repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const entryColumns = `id, external_ref, description, competency_date, credit_account_id, debit_account_id, amount, status, created_at, updated_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ExternalRef, &e.Description, &e.CompetencyDate,
		&e.CreditAccountID, &e.DebitAccountID, &e.Amount, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *repository) query(ctx context.Context, sql string, args ...any) ([]Entry, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM ledger_entries ORDER BY competency_date DESC, id DESC`)
}

func (r *repository) Get(ctx context.Context, id int64) (Entry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, fmt.Errorf("%w: id %d", shared.ErrEntryNotFound, id)
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, e Entry) (Entry, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO ledger_entries
(external_ref, description, competency_date, credit_account_id, debit_account_id, amount, status)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at, updated_at`,
		e.ExternalRef, e.Description, e.CompetencyDate, e.CreditAccountID, e.DebitAccountID, e.Amount, e.Status)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *repository) Update(ctx context.Context, e Entry) error {
	cmd, err := r.db.Exec(ctx, `UPDATE ledger_entries
SET description=$2, competency_date=$3, credit_account_id=$4, debit_account_id=$5, amount=$6, status=$7, updated_at=NOW()
WHERE id=$1`,
		e.ID, e.Description, e.CompetencyDate, e.CreditAccountID, e.DebitAccountID, e.Amount, e.Status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrEntryNotFound, e.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM ledger_entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrEntryNotFound, id)
	}
	return nil
}

func (r *repository) FindByCreditAccount(ctx context.Context, accountID int64) ([]Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE credit_account_id=$1 ORDER BY competency_date, id`, accountID)
}

func (r *repository) FindByDebitAccount(ctx context.Context, accountID int64) ([]Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE debit_account_id=$1 ORDER BY competency_date, id`, accountID)
}

func (r *repository) EffectiveSums(ctx context.Context, accountID int64) (decimal.Decimal, decimal.Decimal, error) {
	var credits, debits decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT
COALESCE(SUM(amount) FILTER (WHERE credit_account_id=$1), 0),
COALESCE(SUM(amount) FILTER (WHERE debit_account_id=$1), 0)
FROM ledger_entries
WHERE status='EFFECTIVE' AND (credit_account_id=$1 OR debit_account_id=$1)`, accountID).
		Scan(&credits, &debits)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return credits, debits, nil
}

func (r *repository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries WHERE credit_account_id=$1 OR debit_account_id=$1`, accountID).Scan(&n)
	return n, err
}

// EffectuateDue flips projected entries whose competency date has arrived to
// effective and returns how many were touched.
func (r *repository) EffectuateDue(ctx context.Context, asOf string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE ledger_entries
SET status='EFFECTIVE', updated_at=NOW()
WHERE status='PROJECTED' AND competency_date <= $1`, asOf)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
