// Package bootstrap seeds the system-managed chart of accounts roots.
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/caderno/caderno/internal/ledger/accounts"
)

var roots = []accounts.Account{
	{Sequence: 1, Description: "Assets", Nature: accounts.NatureDebtor, Type: accounts.TypeSynthetic},
	{Sequence: 2, Description: "Liabilities", Nature: accounts.NatureCreditor, Type: accounts.TypeSynthetic},
	{Sequence: 3, Description: "Equity", Nature: accounts.NatureCreditor, Type: accounts.TypeSynthetic},
	{Sequence: 4, Description: "Revenue", Nature: accounts.NatureCreditor, Type: accounts.TypeSynthetic},
	{Sequence: 5, Description: "Expenses", Nature: accounts.NatureDebtor, Type: accounts.TypeSynthetic},
}

// Seed creates the root accounts once, on an empty chart. Roots are
// system-managed: they can never be edited or deleted, so the tree always has
// stable natures to derive contra status from.
func Seed(ctx context.Context, repo accounts.Repository, logger *slog.Logger) error {
	seeded := false
	err := repo.WithTx(ctx, func(repo accounts.Repository) error {
		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, root := range roots {
			root.Active = true
			root.SystemManaged = true
			if _, err := repo.Create(ctx, root); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded chart of accounts", slog.Int("roots", len(roots)))
	}
	return nil
}
