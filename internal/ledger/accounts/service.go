package accounts

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/caderno/caderno/internal/ledger/shared"
)

// Service exposes the account operations consumed by the boundary layer. All
// reads are computed over a fresh tree snapshot; writes validate fully before
// committing anything.
type Service struct {
	repo    Repository
	entries EntryReader
	cache   *BalanceCache
}

// NewService wires the account service.
func NewService(repo Repository, entries EntryReader, cache *BalanceCache) *Service {
	return &Service{repo: repo, entries: entries, cache: cache}
}

// Snapshot loads every account into an indexed tree.
func (s *Service) Snapshot(ctx context.Context) (*Tree, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewTree(all), nil
}

// List returns the flat chart ordered by integer path tuples.
func (s *Service) List(ctx context.Context) ([]View, error) {
	tree, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	sorted := tree.SortedByPath()
	out := make([]View, 0, len(sorted))
	for _, a := range sorted {
		view, err := s.buildView(ctx, tree, a)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// ListTree returns the chart as nested nodes, children ordered by sequence.
func (s *Service) ListTree(ctx context.Context) ([]TreeNode, error) {
	tree, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	roots := tree.Roots()
	out := make([]TreeNode, 0, len(roots))
	for _, root := range roots {
		out = append(out, s.buildTreeNode(tree, root))
	}
	return out, nil
}

// Get returns the full read model for one account.
func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	tree, err := s.Snapshot(ctx)
	if err != nil {
		return View{}, err
	}
	a, ok := tree.Account(id)
	if !ok {
		return View{}, fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, id)
	}
	return s.buildView(ctx, tree, a)
}

// Counterparts lists active analytic accounts, optionally restricted to the
// ones accepting the given side. Used to populate entry forms.
func (s *Service) Counterparts(ctx context.Context, side *Side) ([]View, error) {
	views, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(views))
	for _, v := range views {
		if v.Type != TypeAnalytic || !v.Active {
			continue
		}
		if side != nil {
			a := Account{Nature: v.Nature, AcceptsOppositeSide: v.AcceptsOppositeSide}
			if !a.AcceptsSide(*side) {
				continue
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// Create opens a new account under an existing parent with the next free
// sibling sequence. A child of a contra parent is always contra; the child's
// nature is derived from the root's, inverted for contra accounts.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	if err := in.Validate(); err != nil {
		return View{}, err
	}
	var createdID int64
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		all, err := repo.ListAll(ctx)
		if err != nil {
			return err
		}
		tree := NewTree(all)
		parent, ok := tree.Account(*in.ParentID)
		if !ok {
			return fmt.Errorf("%w: parent id %d", shared.ErrAccountNotFound, *in.ParentID)
		}
		if parent.Type != TypeSynthetic {
			return fmt.Errorf("%w: parent must be a synthetic account", shared.ErrValidation)
		}
		contra := in.Contra
		if tree.IsContra(parent.ID) {
			contra = true
		}
		root, _ := tree.Root(parent.ID)
		nature := root.Nature
		if contra {
			nature = nature.Opposite()
		}
		nextSeq := 1
		for _, sibling := range tree.Children(parent.ID) {
			if sibling.Sequence >= nextSeq {
				nextSeq = sibling.Sequence + 1
			}
		}
		created, err := repo.Create(ctx, Account{
			ParentID:    in.ParentID,
			Sequence:    nextSeq,
			Description: in.Description,
			Nature:      nature,
			Type:        in.Type,
			Active:      true,
		})
		if err != nil {
			return err
		}
		createdID = created.ID
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return s.Get(ctx, createdID)
}

// Update applies an edit after checking every changed field against the
// editable set. The first non-editable change rejects the whole edit, nothing
// is persisted.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (View, error) {
	if err := in.Validate(); err != nil {
		return View{}, err
	}
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		all, err := repo.ListAll(ctx)
		if err != nil {
			return err
		}
		tree := NewTree(all)
		a, ok := tree.Account(id)
		if !ok {
			return fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, id)
		}
		if !Editable(a) {
			return fmt.Errorf("%w: account is system-managed", shared.ErrNotEditable)
		}
		pctx, err := s.policyContext(ctx, tree, a)
		if err != nil {
			return err
		}
		fields := EditableFields(a, pctx)
		changed := map[Field]bool{
			FieldDescription:         in.Description != a.Description,
			FieldAccountType:         in.Type != a.Type,
			FieldAcceptsOppositeSide: in.AcceptsOppositeSide != a.AcceptsOppositeSide,
		}
		for _, f := range []Field{FieldDescription, FieldAccountType, FieldAcceptsOppositeSide} {
			if changed[f] && !fields[f] {
				return fmt.Errorf("%w: %s", shared.ErrFieldNotEditable, f)
			}
		}
		a.Description = in.Description
		a.Type = in.Type
		a.AcceptsOppositeSide = in.AcceptsOppositeSide
		return repo.Update(ctx, a)
	})
	if err != nil {
		return View{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes an account that has no children, no entries and is not
// system-managed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(repo Repository) error {
		all, err := repo.ListAll(ctx)
		if err != nil {
			return err
		}
		tree := NewTree(all)
		a, ok := tree.Account(id)
		if !ok {
			return fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, id)
		}
		pctx, err := s.policyContext(ctx, tree, a)
		if err != nil {
			return err
		}
		if !Deletable(a, pctx) {
			switch {
			case a.SystemManaged:
				return fmt.Errorf("%w: account is system-managed", shared.ErrNotDeletable)
			case pctx.ChildCount > 0:
				return fmt.Errorf("%w: account has child accounts", shared.ErrNotDeletable)
			default:
				return fmt.Errorf("%w: account has ledger entries", shared.ErrNotDeletable)
			}
		}
		return repo.Delete(ctx, id)
	})
}

// BookBalance computes credits minus debits over effective entries.
func (s *Service) BookBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	tree, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return s.bookBalance(ctx, tree, id)
}

// NaturalBalance computes the human-readable balance for the account.
func (s *Service) NaturalBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	tree, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return s.naturalBalance(ctx, tree, id)
}

// Balance returns both readings at once.
func (s *Service) Balance(ctx context.Context, id int64) (BalanceView, error) {
	tree, err := s.Snapshot(ctx)
	if err != nil {
		return BalanceView{}, err
	}
	a, ok := tree.Account(id)
	if !ok {
		return BalanceView{}, fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, id)
	}
	book, err := s.bookBalance(ctx, tree, id)
	if err != nil {
		return BalanceView{}, err
	}
	natural := book
	if a.Nature == NatureDebtor {
		natural = book.Neg()
	}
	return BalanceView{AccountID: id, BookBalance: book, NaturalBalance: natural}, nil
}

// EditableFieldNames returns the currently mutable fields of the account.
func (s *Service) EditableFieldNames(ctx context.Context, id int64) ([]string, error) {
	tree, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	a, ok := tree.Account(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, id)
	}
	pctx, err := s.policyContext(ctx, tree, a)
	if err != nil {
		return nil, err
	}
	return FieldNames(EditableFields(a, pctx)), nil
}

func (s *Service) bookBalance(ctx context.Context, tree *Tree, id int64) (decimal.Decimal, error) {
	return s.cache.Fetch(ctx, fmt.Sprintf("ledger:balances:book:%d", id), func(ctx context.Context) (decimal.Decimal, error) {
		return NewBalanceCalculator(tree, s.entries).BookBalance(ctx, id)
	})
}

func (s *Service) naturalBalance(ctx context.Context, tree *Tree, id int64) (decimal.Decimal, error) {
	book, err := s.bookBalance(ctx, tree, id)
	if err != nil {
		return decimal.Zero, err
	}
	if a, ok := tree.Account(id); ok && a.Nature == NatureDebtor {
		return book.Neg(), nil
	}
	return book, nil
}

func (s *Service) policyContext(ctx context.Context, tree *Tree, a Account) (PolicyContext, error) {
	count, err := s.entries.CountByAccount(ctx, a.ID)
	if err != nil {
		return PolicyContext{}, err
	}
	children := tree.Children(a.ID)
	allContra := true
	for _, child := range children {
		if !tree.IsContra(child.ID) {
			allContra = false
			break
		}
	}
	parentIsContra := false
	if parent, ok := tree.Parent(a.ID); ok {
		parentIsContra = tree.IsContra(parent.ID)
	}
	return PolicyContext{
		ChildCount:        len(children),
		EntryCount:        count,
		ParentIsContra:    parentIsContra,
		ChildrenAllContra: allContra,
	}, nil
}

func (s *Service) buildView(ctx context.Context, tree *Tree, a Account) (View, error) {
	pctx, err := s.policyContext(ctx, tree, a)
	if err != nil {
		return View{}, err
	}
	natural, err := s.naturalBalance(ctx, tree, a.ID)
	if err != nil {
		return View{}, err
	}
	return View{
		ID:                  a.ID,
		ParentID:            a.ParentID,
		Code:                tree.Code(a.ID),
		Path:                tree.Path(a.ID),
		Description:         a.Description,
		DisplayLabel:        tree.DisplayLabel(a.ID),
		Nature:              a.Nature,
		Type:                a.Type,
		Active:              a.Active,
		Contra:              tree.IsContra(a.ID),
		AcceptsOppositeSide: a.AcceptsOppositeSide,
		SystemManaged:       a.SystemManaged,
		NaturalBalance:      natural,
		Editable:            Editable(a),
		Deletable:           Deletable(a, pctx),
		EditableFields:      FieldNames(EditableFields(a, pctx)),
	}, nil
}

func (s *Service) buildTreeNode(tree *Tree, a Account) TreeNode {
	node := TreeNode{
		ID:           a.ID,
		Code:         tree.Code(a.ID),
		Description:  a.Description,
		DisplayLabel: tree.DisplayLabel(a.ID),
		Nature:       a.Nature,
		Type:         a.Type,
		Active:       a.Active,
		Contra:       tree.IsContra(a.ID),
	}
	for _, child := range tree.Children(a.ID) {
		node.Children = append(node.Children, s.buildTreeNode(tree, child))
	}
	return node
}
