package entries

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/caderno/caderno/internal/ledger/accounts"
	"github.com/caderno/caderno/internal/ledger/shared"
)

type memoryRepo struct {
	entries map[int64]Entry
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{entries: make(map[int64]Entry)}
}

func (r *memoryRepo) List(context.Context) ([]Entry, error) {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, id int64) (Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: id %d", shared.ErrEntryNotFound, id)
	}
	return e, nil
}

func (r *memoryRepo) Create(_ context.Context, e Entry) (Entry, error) {
	r.nextID++
	e.ID = r.nextID
	r.entries[e.ID] = e
	return e, nil
}

func (r *memoryRepo) Update(_ context.Context, e Entry) error {
	if _, ok := r.entries[e.ID]; !ok {
		return fmt.Errorf("%w: id %d", shared.ErrEntryNotFound, e.ID)
	}
	r.entries[e.ID] = e
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("%w: id %d", shared.ErrEntryNotFound, id)
	}
	delete(r.entries, id)
	return nil
}

func (r *memoryRepo) FindByCreditAccount(_ context.Context, accountID int64) ([]Entry, error) {
	var out []Entry
	for _, e := range r.entries {
		if e.CreditAccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryRepo) FindByDebitAccount(_ context.Context, accountID int64) ([]Entry, error) {
	var out []Entry
	for _, e := range r.entries {
		if e.DebitAccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryRepo) EffectiveSums(_ context.Context, accountID int64) (decimal.Decimal, decimal.Decimal, error) {
	credits, debits := decimal.Zero, decimal.Zero
	for _, e := range r.entries {
		if e.Status != StatusEffective {
			continue
		}
		if e.CreditAccountID == accountID {
			credits = credits.Add(e.Amount)
		}
		if e.DebitAccountID == accountID {
			debits = debits.Add(e.Amount)
		}
	}
	return credits, debits, nil
}

func (r *memoryRepo) CountByAccount(_ context.Context, accountID int64) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.CreditAccountID == accountID || e.DebitAccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) EffectuateDue(_ context.Context, asOf string) (int64, error) {
	var touched int64
	for id, e := range r.entries {
		if e.Status == StatusProjected && e.CompetencyDate.Format("2006-01-02") <= asOf {
			e.Status = StatusEffective
			r.entries[id] = e
			touched++
		}
	}
	return touched, nil
}

type stubDirectory struct {
	tree    *accounts.Tree
	natural decimal.Decimal
}

func (d stubDirectory) Snapshot(context.Context) (*accounts.Tree, error) {
	return d.tree, nil
}

func (d stubDirectory) NaturalBalance(context.Context, int64) (decimal.Decimal, error) {
	return d.natural, nil
}

type denyLock struct{}

func (denyLock) CanModify(context.Context, Entry) error {
	return errors.New("period closed")
}

type countingBumper struct {
	bumps int
}

func (b *countingBumper) Bump(context.Context) error {
	b.bumps++
	return nil
}

type failingBumper struct{}

func (failingBumper) Bump(context.Context) error {
	return errors.New("redis: connection refused")
}

func chartTree() *accounts.Tree {
	return accounts.NewTree([]accounts.Account{
		{ID: 1, Sequence: 1, Description: "Assets", Nature: accounts.NatureDebtor, Type: accounts.TypeSynthetic, SystemManaged: true, Active: true},
		{ID: 10, ParentID: ptr(1), Sequence: 1, Description: "Checking", Nature: accounts.NatureDebtor, Type: accounts.TypeAnalytic, Active: true},
		{ID: 4, Sequence: 4, Description: "Revenue", Nature: accounts.NatureCreditor, Type: accounts.TypeSynthetic, SystemManaged: true, Active: true},
		{ID: 40, ParentID: ptr(4), Sequence: 1, Description: "Salary", Nature: accounts.NatureCreditor, Type: accounts.TypeAnalytic, Active: true},
		{ID: 5, Sequence: 5, Description: "Expenses", Nature: accounts.NatureDebtor, Type: accounts.TypeSynthetic, SystemManaged: true, Active: true},
		{ID: 50, ParentID: ptr(5), Sequence: 1, Description: "Groceries", Nature: accounts.NatureDebtor, Type: accounts.TypeAnalytic, Active: true},
	})
}

func validInput() Input {
	return Input{
		Description:     "Monthly salary",
		CompetencyDate:  "2026-05-02",
		CreditAccountID: ptr(40),
		DebitAccountID:  ptr(10),
		Amount:          decimal.NewFromInt(4200),
		Status:          StatusEffective,
	}
}

func TestServiceCreatePersistsAndBumps(t *testing.T) {
	repo := newMemoryRepo()
	bumper := &countingBumper{}
	svc := NewService(repo, stubDirectory{tree: chartTree()}, nil, bumper, nil)

	view, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.NotZero(t, view.ID)
	require.NotEmpty(t, view.ExternalRef)
	require.Equal(t, "2026-05-02", view.CompetencyDate)
	require.Contains(t, view.CreditAccount, "Salary")
	require.Contains(t, view.DebitAccount, "Checking")
	require.Equal(t, 1, bumper.bumps)

	stored := repo.entries[view.ID]
	require.Equal(t, int64(40), stored.CreditAccountID)
	require.Equal(t, StatusEffective, stored.Status)
	require.Equal(t, "2026-05-02", stored.CompetencyDate.UTC().Format("2006-01-02"))
}

func TestServiceCreateLogsFailedBump(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	repo := newMemoryRepo()
	svc := NewService(repo, stubDirectory{tree: chartTree()}, nil, failingBumper{}, logger)

	view, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err, "a failed cache invalidation must not fail the write")
	require.NotZero(t, view.ID)
	require.Contains(t, buf.String(), "bump balance cache")
	require.Contains(t, buf.String(), "connection refused")
}

func TestServiceCreateRejectsInvalid(t *testing.T) {
	repo := newMemoryRepo()
	bumper := &countingBumper{}
	svc := NewService(repo, stubDirectory{tree: chartTree()}, nil, bumper, nil)

	in := validInput()
	in.DebitAccountID = ptr(40)
	in.CreditAccountID = ptr(40)
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Empty(t, repo.entries)
	require.Zero(t, bumper.bumps)
}

func TestServiceCreateRejectsBadDate(t *testing.T) {
	svc := NewService(newMemoryRepo(), stubDirectory{tree: chartTree()}, nil, nil, nil)

	in := validInput()
	in.CompetencyDate = "02/05/2026"
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestServiceUpdateRevalidates(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, stubDirectory{tree: chartTree()}, nil, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Description = "Adjusted salary"
	in.Amount = decimal.NewFromInt(4300)
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	require.Equal(t, "Adjusted salary", updated.Description)
	require.True(t, repo.entries[created.ID].Amount.Equal(decimal.NewFromInt(4300)))

	in.Amount = decimal.Zero
	_, err = svc.Update(ctx, created.ID, in)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestServiceUpdateHonorsLock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, stubDirectory{tree: chartTree()}, nil, nil, nil)
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	locked := NewService(repo, stubDirectory{tree: chartTree()}, denyLock{}, nil, nil)
	_, err = locked.Update(context.Background(), created.ID, validInput())
	require.ErrorIs(t, err, shared.ErrNotEditable)
	require.ErrorIs(t, locked.Delete(context.Background(), created.ID), shared.ErrNotDeletable)
}

func TestServiceDeleteBumps(t *testing.T) {
	repo := newMemoryRepo()
	bumper := &countingBumper{}
	svc := NewService(repo, stubDirectory{tree: chartTree()}, nil, bumper, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
	require.Empty(t, repo.entries)
	require.Equal(t, 2, bumper.bumps)

	require.ErrorIs(t, svc.Delete(ctx, created.ID), shared.ErrEntryNotFound)
}

func TestServiceStatementSeedsProjectedView(t *testing.T) {
	repo := newMemoryRepo()
	dir := stubDirectory{tree: chartTree(), natural: decimal.NewFromInt(1000)}
	svc := NewService(repo, dir, nil, nil, nil)
	ctx := context.Background()

	in := validInput()
	in.Status = StatusProjected
	in.CompetencyDate = "2026-06-01"
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	rows, err := svc.Statement(ctx, 10, StatusProjected)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, rows[0].Balance.Equal(decimal.NewFromInt(5200)), "balance = %s", rows[0].Balance)
	require.Contains(t, rows[0].Counterpart, "Salary")
	require.True(t, rows[1].IsAggregate)
}

func TestServiceStatementUnknownAccount(t *testing.T) {
	svc := NewService(newMemoryRepo(), stubDirectory{tree: chartTree()}, nil, nil, nil)
	_, err := svc.Statement(context.Background(), 777, StatusEffective)
	require.ErrorIs(t, err, shared.ErrAccountNotFound)
}
