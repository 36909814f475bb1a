package entries

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caderno/caderno/internal/ledger/accounts"
)

// Direction classifies a movement from the statement account's point of view.
type Direction string

const (
	DirectionInflow  Direction = "INFLOW"
	DirectionOutflow Direction = "OUTFLOW"
)

// MovementRow is one line of an account statement: a single entry seen from
// one side, or the synthetic daily aggregate closing a date.
type MovementRow struct {
	Date        time.Time
	Description string
	EntryID     *int64
	Counterpart string
	Direction   Direction
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	IsAggregate bool
	Status      Status
}

// StatementInput collects everything the builder needs, pre-fetched by the
// caller: the statement account, its entries from both sides, the requested
// status and the running-balance seed (zero for the effective view, the
// account's current natural balance for the projected one).
type StatementInput struct {
	Account     accounts.Account
	AsCredit    []Entry
	AsDebit     []Entry
	Status      Status
	Seed        decimal.Decimal
	Counterpart func(accountID int64) string
}

// BuildStatement turns raw entries into the dated movement history with
// running balances and daily aggregates.
//
// The computation pass always walks dates oldest to newest so balances
// accumulate correctly; within a date, inflows precede outflows and ties
// break on ascending entry id. Each date closes with an aggregate row
// carrying the day's net change and ending balance. The effective view is
// then reversed for display (newest date first, aggregate leading, movements
// mirrored); the projected view is returned in computation order.
func BuildStatement(in StatementInput) []MovementRow {
	movements := make([]MovementRow, 0, len(in.AsCredit)+len(in.AsDebit))
	for _, e := range in.AsCredit {
		movements = append(movements, newMovement(in, e, accounts.SideCredit))
	}
	for _, e := range in.AsDebit {
		movements = append(movements, newMovement(in, e, accounts.SideDebit))
	}

	filtered := movements[:0]
	for _, m := range movements {
		if m.Status == in.Status {
			filtered = append(filtered, m)
		}
	}
	movements = filtered

	sort.SliceStable(movements, func(i, j int) bool {
		a, b := movements[i], movements[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Direction != b.Direction {
			return a.Direction == DirectionInflow
		}
		return *a.EntryID < *b.EntryID
	})

	var dates []time.Time
	byDate := make(map[time.Time][]MovementRow)
	for _, m := range movements {
		if _, ok := byDate[m.Date]; !ok {
			dates = append(dates, m.Date)
		}
		byDate[m.Date] = append(byDate[m.Date], m)
	}

	rows := make([]MovementRow, 0, len(movements)+len(dates))
	balance := in.Seed
	for _, date := range dates {
		opening := balance
		for _, m := range byDate[date] {
			balance = balance.Add(m.Amount)
			m.Balance = balance
			rows = append(rows, m)
		}
		net := balance.Sub(opening)
		direction := DirectionInflow
		if net.IsNegative() {
			direction = DirectionOutflow
		}
		rows = append(rows, MovementRow{
			Date:        date,
			Direction:   direction,
			Amount:      net,
			Balance:     balance,
			IsAggregate: true,
			Status:      in.Status,
		})
	}

	if in.Status == StatusEffective {
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			if a.IsAggregate != b.IsAggregate {
				return a.IsAggregate
			}
			if a.Direction != b.Direction {
				return a.Direction == DirectionOutflow
			}
			return *a.EntryID > *b.EntryID
		})
	}
	return rows
}

func newMovement(in StatementInput, e Entry, side accounts.Side) MovementRow {
	inflow := in.Account.Nature == accounts.NatureCreditor
	if side == accounts.SideDebit {
		inflow = in.Account.Nature == accounts.NatureDebtor
	}
	direction := DirectionOutflow
	amount := e.Amount.Neg()
	if inflow {
		direction = DirectionInflow
		amount = e.Amount
	}
	counterpartID := e.CreditAccountID
	if side == accounts.SideCredit {
		counterpartID = e.DebitAccountID
	}
	counterpart := ""
	if in.Counterpart != nil {
		counterpart = in.Counterpart(counterpartID)
	}
	id := e.ID
	// byDate keys on Date with ==, so the day must be canonical: the
	// calendar day at UTC midnight, whatever location the entry carried.
	return MovementRow{
		Date:        normalizeDate(e.CompetencyDate),
		Description: e.Description,
		EntryID:     &id,
		Counterpart: counterpart,
		Direction:   direction,
		Amount:      amount,
		Status:      e.Status,
	}
}
