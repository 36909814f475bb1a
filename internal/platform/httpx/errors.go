package httpx

import (
	"errors"
	"net/http"

	"github.com/caderno/caderno/internal/ledger/shared"
)

// RespondError maps ledger errors to RFC7807 responses. Rejection messages
// are surfaced verbatim, the caller supplied the offending input.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrAccountNotFound), errors.Is(err, shared.ErrEntryNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInactiveAccount),
		errors.Is(err, shared.ErrWrongAccountType),
		errors.Is(err, shared.ErrSideNotAccepted):
		Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrNotEditable),
		errors.Is(err, shared.ErrFieldNotEditable),
		errors.Is(err, shared.ErrNotDeletable):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
