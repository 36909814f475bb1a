package entries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status segregates realized entries from forecast ones. The two populations
// never appear in the same statement view.
type Status string

const (
	StatusEffective Status = "EFFECTIVE"
	StatusProjected Status = "PROJECTED"
)

// Entry is a double-entry posting: a strictly positive amount moved from the
// credit account to the debit account on a competency date.
type Entry struct {
	ID              int64
	ExternalRef     uuid.UUID
	Description     string
	CompetencyDate  time.Time
	CreditAccountID int64
	DebitAccountID  int64
	Amount          decimal.Decimal
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
