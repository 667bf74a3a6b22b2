package model

import "fmt"

// Standard error codes surfaced to callers and API responses
const (
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeOutOfStock          = "OUT_OF_STOCK"
	ErrCodeQuantityLimit       = "QUANTITY_LIMIT_EXCEEDED"
	ErrCodeEmptySelection      = "EMPTY_SELECTION"
	ErrCodeUnavailableSelected = "UNAVAILABLE_ITEM_SELECTED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeTransport           = "TRANSPORT_ERROR"
	ErrCodeConfirmRemoval      = "CONFIRM_REMOVAL"
	ErrCodeMutationInFlight    = "MUTATION_IN_FLIGHT"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInvalidPromoCode    = "INVALID_PROMO_CODE"
	ErrCodeInvalidPromoLength  = "INVALID_PROMO_LENGTH"
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure the caller can branch on by code.
type DomainError struct {
	Code    string
	Message string
}

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
	ErrUnauthenticated         = NewDomainError(ErrCodeUnauthenticated, "No authenticated user session")
	ErrOutOfStock              = NewDomainError(ErrCodeOutOfStock, "Requested quantity exceeds available stock")
	ErrQuantityLimitExceeded   = NewDomainError(ErrCodeQuantityLimit, "Per-product quantity limit exceeded")
	ErrEmptySelection          = NewDomainError(ErrCodeEmptySelection, "No cart lines selected for checkout")
	ErrUnavailableItemSelected = NewDomainError(ErrCodeUnavailableSelected, "A selected cart line is no longer available")
	ErrNotFound                = NewDomainError(ErrCodeNotFound, "Requested entity not found")
	ErrConfirmRemoval          = NewDomainError(ErrCodeConfirmRemoval, "Quantity below one requires removal confirmation")
	ErrMutationInFlight        = NewDomainError(ErrCodeMutationInFlight, "A cart mutation is already in progress")
	ErrInvalidQuantity         = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPromoCode        = NewDomainError(ErrCodeInvalidPromoCode, "Promo code is not in any active voucher list")
	ErrInvalidPromoLength      = NewDomainError(ErrCodeInvalidPromoLength, "Promo code must be between 8 and 10 characters")
)

// TransportError wraps a failure of the backing source (database or remote
// API). Callers must preserve whatever cached snapshot they held before the
// failing call.
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewTransportError wraps cause as a transport failure of the named operation.
func NewTransportError(op string, cause error) *TransportError {
	return &TransportError{Op: op, Cause: cause}
}

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}
