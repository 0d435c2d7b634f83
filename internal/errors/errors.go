// Package errors defines the shared error family for the order core and the
// gateway. Every domain failure carries a stable (code, name, message) triple
// that goes out on the wire inside the response envelope, so codes and names
// must never change once published.
package errors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindStatusTransition
	KindCancellation
	KindCompletion
	KindAuthentication
	KindAuthorization
	KindUnavailable
	KindInternal
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the single tagged error type used across services. Details is only
// populated for validation failures; Cause is never serialized.
type Error struct {
	Kind    Kind
	Code    string
	Name    string
	Message string
	Details []ValidationDetail
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewOrderNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "PTCM-E101", Name: "OrderNotFoundException", Message: message}
}

func NewRestaurantNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "PTCM-E106", Name: "RestaurantNotFoundException", Message: message}
}

func NewMenuNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "PTCM-E107", Name: "MenuNotFoundException", Message: message}
}

func NewAddressNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "PTCM-E108", Name: "AddressNotFoundException", Message: message}
}

func NewValidationError(message string, details ...ValidationDetail) *Error {
	return &Error{Kind: KindValidation, Code: "PTCM-E103", Name: "OrderValidationException", Message: message, Details: details}
}

func NewStatusTransitionError(current, requested string) *Error {
	return &Error{
		Kind:    KindStatusTransition,
		Code:    "PTCM-E102",
		Name:    "OrderStatusException",
		Message: fmt.Sprintf("cannot transition order status from %q to %q", current, requested),
	}
}

func NewCancellationError(current string) *Error {
	return &Error{
		Kind:    KindCancellation,
		Code:    "PTCM-E110",
		Name:    "OrderCancellationException",
		Message: fmt.Sprintf("cannot cancel order in status %q", current),
	}
}

func NewCompletionError(current string) *Error {
	return &Error{
		Kind:    KindCompletion,
		Code:    "PTCM-E111",
		Name:    "OrderCompletionException",
		Message: fmt.Sprintf("cannot complete order in status %q", current),
	}
}

func NewAuthenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Code: "PTCM-E400", Name: "AuthenticationException", Message: message}
}

func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: "PTCM-E401", Name: "AuthorizationException", Message: message}
}

func NewUnavailableError(message string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Code: "PTCM-E300", Name: "ExternalServiceException", Message: message, Cause: cause}
}

func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: "PTCM-E200", Name: "DatabaseException", Message: message, Cause: cause}
}

func NewUnknownError(cause error) *Error {
	return &Error{Kind: KindUnknown, Code: "PTCM-E999", Name: "UnknownException", Message: "an unknown error occurred", Cause: cause}
}

// AsError extracts the tagged error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	if e, ok := AsError(err); ok {
		return e.Kind == kind
	}
	return false
}

func IsNotFoundError(err error) bool { return IsKind(err, KindNotFound) }

func IsValidationError(err error) bool { return IsKind(err, KindValidation) }

func IsStatusTransitionError(err error) bool { return IsKind(err, KindStatusTransition) }

func IsAuthorizationError(err error) bool { return IsKind(err, KindAuthorization) }
