package shared

import "errors"

var (
	// ErrValidation indicates a missing or invalid field on the input.
	ErrValidation = errors.New("ledger: validation failed")
	// ErrAccountNotFound indicates the account id does not resolve.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrEntryNotFound indicates the entry id does not resolve.
	ErrEntryNotFound = errors.New("ledger: entry not found")
	// ErrInactiveAccount indicates a posting against an inactive account.
	ErrInactiveAccount = errors.New("ledger: inactive accounts cannot receive entries")
	// ErrWrongAccountType indicates a synthetic account used where an analytic one is required.
	ErrWrongAccountType = errors.New("ledger: only analytic accounts can receive entries")
	// ErrSideNotAccepted indicates the account rejects the requested credit/debit side.
	ErrSideNotAccepted = errors.New("ledger: account does not accept entries on this side")
	// ErrNotEditable indicates an edit attempted on a locked entity.
	ErrNotEditable = errors.New("ledger: entity cannot be edited")
	// ErrFieldNotEditable indicates a change to a field outside the editable set.
	ErrFieldNotEditable = errors.New("ledger: field is not editable")
	// ErrNotDeletable indicates a structural or transactional obstruction to deletion.
	ErrNotDeletable = errors.New("ledger: entity cannot be deleted")
)
