package entries

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caderno/caderno/internal/ledger/accounts"
	"github.com/caderno/caderno/internal/ledger/shared"
)

// AccountDirectory is the slice of the account service the entry operations
// need: a tree snapshot for lookups and labels, and the natural balance used
// to seed projected statements.
type AccountDirectory interface {
	Snapshot(ctx context.Context) (*accounts.Tree, error)
	NaturalBalance(ctx context.Context, id int64) (decimal.Decimal, error)
}

// Lock decides whether an existing entry may still be modified or deleted.
// The rule itself (period close, audit freeze) belongs to the caller; the
// core only honors the hook.
type Lock interface {
	CanModify(ctx context.Context, e Entry) error
}

// AllowAll is the default lock: every entry stays modifiable.
type AllowAll struct{}

// CanModify always allows the modification.
func (AllowAll) CanModify(context.Context, Entry) error { return nil }

// CacheBumper invalidates derived balances after a write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service exposes entry operations: validated create/edit/delete and the
// per-account statement view.
type Service struct {
	repo     Repository
	accounts AccountDirectory
	lock     Lock
	cache    CacheBumper
	logger   *slog.Logger
}

// NewService wires the entry service. A nil lock falls back to AllowAll, a
// nil logger to slog.Default.
func NewService(repo Repository, dir AccountDirectory, lock Lock, cache CacheBumper, logger *slog.Logger) *Service {
	if lock == nil {
		lock = AllowAll{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, accounts: dir, lock: lock, cache: cache, logger: logger}
}

// List returns every entry, most recent competency date first.
func (s *Service) List(ctx context.Context) ([]View, error) {
	tree, err := s.accounts.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(all))
	for _, e := range all {
		out = append(out, s.buildView(ctx, tree, e))
	}
	return out, nil
}

// Get returns the read model for one entry.
func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	tree, err := s.accounts.Snapshot(ctx)
	if err != nil {
		return View{}, err
	}
	return s.buildView(ctx, tree, e), nil
}

// Create validates and persists a new entry, then invalidates cached
// balances.
func (s *Service) Create(ctx context.Context, in Input) (View, error) {
	tree, err := s.accounts.Snapshot(ctx)
	if err != nil {
		return View{}, err
	}
	candidate := in.Candidate()
	if err := candidate.Validate(lookup(tree, candidate.CreditAccountID), lookup(tree, candidate.DebitAccountID)); err != nil {
		return View{}, err
	}
	created, err := s.repo.Create(ctx, Entry{
		ExternalRef:     uuid.New(),
		Description:     in.Description,
		CompetencyDate:  normalizeDate(candidate.CompetencyDate),
		CreditAccountID: *candidate.CreditAccountID,
		DebitAccountID:  *candidate.DebitAccountID,
		Amount:          candidate.Amount,
		Status:          candidate.Status,
	})
	if err != nil {
		return View{}, err
	}
	s.bump(ctx)
	return s.buildView(ctx, tree, created), nil
}

// Update re-validates the full entry and persists it, honoring the lock.
func (s *Service) Update(ctx context.Context, id int64, in Input) (View, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := s.lock.CanModify(ctx, current); err != nil {
		return View{}, fmt.Errorf("%w: %v", shared.ErrNotEditable, err)
	}
	tree, err := s.accounts.Snapshot(ctx)
	if err != nil {
		return View{}, err
	}
	candidate := in.Candidate()
	if err := candidate.Validate(lookup(tree, candidate.CreditAccountID), lookup(tree, candidate.DebitAccountID)); err != nil {
		return View{}, err
	}
	current.Description = in.Description
	current.CompetencyDate = normalizeDate(candidate.CompetencyDate)
	current.CreditAccountID = *candidate.CreditAccountID
	current.DebitAccountID = *candidate.DebitAccountID
	current.Amount = candidate.Amount
	current.Status = candidate.Status
	if err := s.repo.Update(ctx, current); err != nil {
		return View{}, err
	}
	s.bump(ctx)
	return s.buildView(ctx, tree, current), nil
}

// Delete removes an entry unless the lock forbids it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.lock.CanModify(ctx, current); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotDeletable, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// Statement builds the dated movement history of one account for the given
// status view.
func (s *Service) Statement(ctx context.Context, accountID int64, status Status) ([]MovementView, error) {
	tree, err := s.accounts.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	account, ok := tree.Account(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, accountID)
	}
	asCredit, err := s.repo.FindByCreditAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	asDebit, err := s.repo.FindByDebitAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	seed := decimal.Zero
	if status == StatusProjected {
		seed, err = s.accounts.NaturalBalance(ctx, accountID)
		if err != nil {
			return nil, err
		}
	}
	rows := BuildStatement(StatementInput{
		Account:     account,
		AsCredit:    asCredit,
		AsDebit:     asDebit,
		Status:      status,
		Seed:        seed,
		Counterpart: tree.DisplayLabel,
	})
	out := make([]MovementView, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewMovementView(row))
	}
	return out, nil
}

func (s *Service) buildView(ctx context.Context, tree *accounts.Tree, e Entry) View {
	editable := s.lock.CanModify(ctx, e) == nil
	return View{
		ID:             e.ID,
		ExternalRef:    e.ExternalRef.String(),
		Description:    e.Description,
		CompetencyDate: e.CompetencyDate.Format("2006-01-02"),
		CreditAccount:  tree.DisplayLabel(e.CreditAccountID),
		DebitAccount:   tree.DisplayLabel(e.DebitAccountID),
		Amount:         e.Amount,
		Status:         e.Status,
		Editable:       editable,
		Deletable:      editable,
		DisplayText:    fmt.Sprintf("%s %s (%s)", e.CompetencyDate.Format("02/01/2006"), e.Description, FormatAmount(e.Amount)),
	}
}

// bump invalidates cached balances after a committed write. A failed
// invalidation is logged, never propagated.
func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump balance cache", slog.Any("error", err))
	}
}

func lookup(tree *accounts.Tree, id *int64) *accounts.Account {
	if id == nil {
		return nil
	}
	if a, ok := tree.Account(*id); ok {
		return &a
	}
	return nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
