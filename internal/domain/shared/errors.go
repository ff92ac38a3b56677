package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Ledger error codes. The sentinels carry generic messages; callers that know
// the requested and available quantities build a DomainError with the same
// code and a fuller message, so matching is done on code via HasCode.
var (
	ErrInvalidQuantity = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive number")

	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")

	ErrInsufficientSectionStock = NewDomainError("INSUFFICIENT_SECTION_STOCK", "Insufficient stock allocated to section")

	// ErrNoAvailableEntry signals that the aggregate stock level covers a
	// request but no single stock entry with remaining quantity could be
	// attributed to the movement.
	ErrNoAvailableEntry = NewDomainError("NO_AVAILABLE_ENTRY", "No stock entry with remaining quantity found")

	// ErrConflictingDelete signals an attempt to delete a stock entry that
	// still has movements referencing it, without an explicit force flag.
	ErrConflictingDelete = NewDomainError("CONFLICTING_DELETE", "Stock entry is referenced by movements")
)

// HasCode reports whether err is a DomainError carrying the same code as target.
func HasCode(err error, target *DomainError) bool {
	de, ok := AsDomain(err)
	return ok && target != nil && de.Code == target.Code
}

// AsDomain extracts the DomainError from err, unwrapping if needed. Errors
// that are not domain errors are infrastructure failures and should
// propagate rather than becoming negative-success results.
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
