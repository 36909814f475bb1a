package accounts

import "time"

// Nature is the side on which increases to an account are recorded.
type Nature string

const (
	NatureCreditor Nature = "CREDITOR"
	NatureDebtor   Nature = "DEBTOR"
)

// Opposite returns the inverse nature.
func (n Nature) Opposite() Nature {
	if n == NatureCreditor {
		return NatureDebtor
	}
	return NatureCreditor
}

// AccountType distinguishes postable leaves from derived aggregates.
type AccountType string

const (
	// TypeAnalytic accounts are leaves that receive entries directly.
	TypeAnalytic AccountType = "ANALYTIC"
	// TypeSynthetic accounts aggregate the balances of their analytic descendants.
	TypeSynthetic AccountType = "SYNTHETIC"
)

// Side is the bookkeeping side of one leg of an entry.
type Side string

const (
	SideCredit Side = "CREDIT"
	SideDebit  Side = "DEBIT"
)

// Account models a node of the chart of accounts.
type Account struct {
	ID                  int64
	ParentID            *int64
	Sequence            int
	Description         string
	Nature              Nature
	Type                AccountType
	AcceptsOppositeSide bool
	Active              bool
	SystemManaged       bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AcceptsSide reports whether the account admits an entry leg on the given
// side: its natural side always, the opposite side only when the account
// opts in.
func (a Account) AcceptsSide(side Side) bool {
	natural := NatureDebtor
	if side == SideCredit {
		natural = NatureCreditor
	}
	return a.Nature == natural || a.AcceptsOppositeSide
}
