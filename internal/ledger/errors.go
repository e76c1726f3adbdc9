package ledger

import (
	"errors"
	"fmt"
)

// Validation errors: the precondition failed and nothing changed. The caller
// can retry with corrected input.
var (
	ErrNotOwner       = errors.New("lister is not the current owner of the asset")
	ErrAlreadyListed  = errors.New("asset is already listed")
	ErrInvalidPrice   = errors.New("listing price must be greater than zero")
	ErrFeeMismatch    = errors.New("paid fee does not match the listing fee")
	ErrNotListed      = errors.New("asset is not listed")
	ErrBuyerIsOwner   = errors.New("buyer is already the owner of record")
	ErrAmountMismatch = errors.New("paid amount does not match the listing price")
)

// ExternalCallError reports that custody transfer or a fund transfer was
// refused by an external collaborator. The enclosing operation aborted with
// no state change; retrying is the caller's decision.
type ExternalCallError struct {
	Call string
	Err  error
}

func (e ExternalCallError) Error() string {
	return fmt.Sprintf("%s: %s", e.Call, e.Err)
}

func (e ExternalCallError) Unwrap() error {
	return e.Err
}

func externalCall(call string, err error) error {
	return ExternalCallError{Call: call, Err: err}
}
