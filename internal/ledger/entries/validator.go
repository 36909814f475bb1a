package entries

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caderno/caderno/internal/ledger/accounts"
	"github.com/caderno/caderno/internal/ledger/shared"
)

// Candidate is a proposed entry, new or edited, before validation.
type Candidate struct {
	Description     string
	CompetencyDate  time.Time
	CreditAccountID *int64
	DebitAccountID  *int64
	Amount          decimal.Decimal
	Status          Status
}

// Validate accepts or rejects a candidate against both account sides. Rules
// run in a fixed order and the first violation wins:
//
//  1. amount present and positive
//  2. competency date present
//  3. both account references present and distinct
//  4. both accounts resolve, are active and analytic
//  5. the credit account accepts the credit side
//  6. the debit account accepts the debit side
//
// The credit and debit arguments are the pre-loaded accounts, nil when the
// reference did not resolve. Nothing is mutated on failure.
func (c Candidate) Validate(credit, debit *accounts.Account) error {
	if c.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if c.CompetencyDate.IsZero() {
		return fmt.Errorf("%w: competency date is required", shared.ErrValidation)
	}
	if c.CreditAccountID == nil {
		return fmt.Errorf("%w: credit account is required", shared.ErrValidation)
	}
	if c.DebitAccountID == nil {
		return fmt.Errorf("%w: debit account is required", shared.ErrValidation)
	}
	if *c.CreditAccountID == *c.DebitAccountID {
		return fmt.Errorf("%w: credit and debit accounts must differ", shared.ErrValidation)
	}
	if credit == nil {
		return fmt.Errorf("%w: credit account id %d", shared.ErrAccountNotFound, *c.CreditAccountID)
	}
	if debit == nil {
		return fmt.Errorf("%w: debit account id %d", shared.ErrAccountNotFound, *c.DebitAccountID)
	}
	if !credit.Active || !debit.Active {
		return shared.ErrInactiveAccount
	}
	if credit.Type != accounts.TypeAnalytic || debit.Type != accounts.TypeAnalytic {
		return shared.ErrWrongAccountType
	}
	if !credit.AcceptsSide(accounts.SideCredit) {
		return fmt.Errorf("%w: credit side on account %d", shared.ErrSideNotAccepted, credit.ID)
	}
	if !debit.AcceptsSide(accounts.SideDebit) {
		return fmt.Errorf("%w: debit side on account %d", shared.ErrSideNotAccepted, debit.ID)
	}
	if c.Status != StatusEffective && c.Status != StatusProjected {
		return fmt.Errorf("%w: status must be EFFECTIVE or PROJECTED", shared.ErrValidation)
	}
	return nil
}
