package entries

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Input carries the writable surface of an entry, for both create and edit.
type Input struct {
	Description     string          `json:"description"`
	CompetencyDate  string          `json:"competencyDate" validate:"required,datetime=2006-01-02"`
	CreditAccountID *int64          `json:"creditAccountId" validate:"required"`
	DebitAccountID  *int64          `json:"debitAccountId" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Status          Status          `json:"status" validate:"required,oneof=EFFECTIVE PROJECTED"`
}

// Candidate converts the input into a validation candidate. A date that does
// not parse is left zero so the validator reports it as missing.
func (in Input) Candidate() Candidate {
	var date time.Time
	if parsed, err := time.Parse("2006-01-02", in.CompetencyDate); err == nil {
		date = parsed
	}
	return Candidate{
		Description:     in.Description,
		CompetencyDate:  date,
		CreditAccountID: in.CreditAccountID,
		DebitAccountID:  in.DebitAccountID,
		Amount:          in.Amount,
		Status:          in.Status,
	}
}

// View is the read model for one entry.
type View struct {
	ID             int64           `json:"id"`
	ExternalRef    string          `json:"externalRef"`
	Description    string          `json:"description"`
	CompetencyDate string          `json:"competencyDate"`
	CreditAccount  string          `json:"creditAccount"`
	DebitAccount   string          `json:"debitAccount"`
	Amount         decimal.Decimal `json:"amount"`
	Status         Status          `json:"status"`
	Editable       bool            `json:"editable"`
	Deletable      bool            `json:"deletable"`
	DisplayText    string          `json:"displayText"`
}

// MovementView is the transport shape of a statement row. Amounts carry a
// pt-BR formatted rendering alongside the exact decimal, matching how the
// ledger is presented.
type MovementView struct {
	Date             string          `json:"date"`
	Description      string          `json:"description,omitempty"`
	EntryID          *int64          `json:"entryId,omitempty"`
	Counterpart      string          `json:"counterpart,omitempty"`
	Direction        Direction       `json:"direction"`
	Amount           decimal.Decimal `json:"amount"`
	Balance          decimal.Decimal `json:"balance"`
	IsAggregate      bool            `json:"isAggregate"`
	FormattedAmount  string          `json:"formattedAmount"`
	FormattedBalance string          `json:"formattedBalance"`
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatAmount renders a decimal as Brazilian currency, e.g. "R$ 1.234,50".
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return ptBR.Sprintf("R$ %v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// NewMovementView converts a statement row for transport.
func NewMovementView(row MovementRow) MovementView {
	return MovementView{
		Date:             row.Date.Format("2006-01-02"),
		Description:      row.Description,
		EntryID:          row.EntryID,
		Counterpart:      row.Counterpart,
		Direction:        row.Direction,
		Amount:           row.Amount,
		Balance:          row.Balance,
		IsAggregate:      row.IsAggregate,
		FormattedAmount:  FormatAmount(row.Amount),
		FormattedBalance: FormatAmount(row.Balance),
	}
}
