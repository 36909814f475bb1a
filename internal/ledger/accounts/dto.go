package accounts

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/caderno/caderno/internal/ledger/shared"
)

// CreateInput groups the fields required to open an account under a parent.
type CreateInput struct {
	ParentID    *int64      `json:"parentId" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Type        AccountType `json:"type" validate:"required,oneof=ANALYTIC SYNTHETIC"`
	Contra      bool        `json:"contra"`
}

// Validate ensures the input meets minimum criteria before any lookup.
func (in CreateInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", shared.ErrValidation)
	}
	if in.Type != TypeAnalytic && in.Type != TypeSynthetic {
		return fmt.Errorf("%w: account type is required", shared.ErrValidation)
	}
	if in.ParentID == nil {
		return fmt.Errorf("%w: parent account is required", shared.ErrValidation)
	}
	return nil
}

// UpdateInput carries the full editable surface of an account. Fields left
// equal to the current value are treated as unchanged.
type UpdateInput struct {
	Description         string      `json:"description" validate:"required"`
	Type                AccountType `json:"type" validate:"required,oneof=ANALYTIC SYNTHETIC"`
	AcceptsOppositeSide bool        `json:"acceptsOppositeSide"`
}

// Validate ensures the input meets minimum criteria.
func (in UpdateInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", shared.ErrValidation)
	}
	if in.Type != TypeAnalytic && in.Type != TypeSynthetic {
		return fmt.Errorf("%w: account type is required", shared.ErrValidation)
	}
	return nil
}

// View is the flat read model exposed to the boundary layer.
type View struct {
	ID                  int64           `json:"id"`
	ParentID            *int64          `json:"parentId,omitempty"`
	Code                string          `json:"code"`
	Path                []int           `json:"path"`
	Description         string          `json:"description"`
	DisplayLabel        string          `json:"displayLabel"`
	Nature              Nature          `json:"nature"`
	Type                AccountType     `json:"type"`
	Active              bool            `json:"active"`
	Contra              bool            `json:"contra"`
	AcceptsOppositeSide bool            `json:"acceptsOppositeSide"`
	SystemManaged       bool            `json:"systemManaged"`
	NaturalBalance      decimal.Decimal `json:"naturalBalance"`
	Editable            bool            `json:"editable"`
	Deletable           bool            `json:"deletable"`
	EditableFields      []string        `json:"editableFields"`
}

// TreeNode is the nested read model for the tree view.
type TreeNode struct {
	ID           int64       `json:"id"`
	Code         string      `json:"code"`
	Description  string      `json:"description"`
	DisplayLabel string      `json:"displayLabel"`
	Nature       Nature      `json:"nature"`
	Type         AccountType `json:"type"`
	Active       bool        `json:"active"`
	Contra       bool        `json:"contra"`
	Children     []TreeNode  `json:"children,omitempty"`
}

// BalanceView pairs the two balance readings of one account.
type BalanceView struct {
	AccountID      int64           `json:"accountId"`
	BookBalance    decimal.Decimal `json:"bookBalance"`
	NaturalBalance decimal.Decimal `json:"naturalBalance"`
}
