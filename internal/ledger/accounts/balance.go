package accounts

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/caderno/caderno/internal/ledger/shared"
)

// EntryReader is the slice of the entry store the balance engine and the
// editability policy need: effective credit/debit totals and posting counts
// per account.
type EntryReader interface {
	EffectiveSums(ctx context.Context, accountID int64) (credits, debits decimal.Decimal, err error)
	CountByAccount(ctx context.Context, accountID int64) (int64, error)
}

// BalanceCalculator computes book and natural balances over a tree snapshot.
type BalanceCalculator struct {
	tree    *Tree
	entries EntryReader
}

// NewBalanceCalculator binds a snapshot to the entry store.
func NewBalanceCalculator(tree *Tree, entries EntryReader) *BalanceCalculator {
	return &BalanceCalculator{tree: tree, entries: entries}
}

// BookBalance returns credits minus debits over effective entries. Synthetic
// accounts sum the book balances of their analytic descendants; descendant
// order does not affect the result, decimal addition is exact.
func (c *BalanceCalculator) BookBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	a, ok := c.tree.Account(id)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: id %d", shared.ErrAccountNotFound, id)
	}
	if a.Type == TypeAnalytic {
		credits, debits, err := c.entries.EffectiveSums(ctx, id)
		if err != nil {
			return decimal.Zero, err
		}
		return credits.Sub(debits), nil
	}
	total := decimal.Zero
	for _, leaf := range c.tree.AnalyticDescendants(id) {
		credits, debits, err := c.entries.EffectiveSums(ctx, leaf.ID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(credits.Sub(debits))
	}
	return total, nil
}

// NaturalBalance re-signs the book balance so that growth in the account's
// own direction reads positive. A contra-account's nature is already set
// opposite to its root's, so no extra inversion is applied here.
func (c *BalanceCalculator) NaturalBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	book, err := c.BookBalance(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	a, _ := c.tree.Account(id)
	if a.Nature == NatureDebtor {
		return book.Neg(), nil
	}
	return book, nil
}
