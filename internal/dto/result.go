package dto

import apperrors "radagast/internal/errors"

// ErrorDto is the wire form of a domain failure. Code and name are stable;
// clients branch on them.
type ErrorDto struct {
	Code    string                       `json:"code"`
	Name    string                       `json:"name"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

// Result is the envelope every service-level response uses. Exactly one of
// Data and Error is set. The envelope, not the HTTP status, is the
// authoritative failure signal for domain errors.
type Result struct {
	Data  any       `json:"data"`
	Error *ErrorDto `json:"error"`
}

func NewSuccessResult(data any) Result {
	return Result{Data: data}
}

// NewErrorResult maps any error to an envelope. Errors outside the shared
// family come out as the catch-all unknown code so internal detail never
// reaches the client.
func NewErrorResult(err error) Result {
	e, ok := apperrors.AsError(err)
	if !ok {
		e = apperrors.NewUnknownError(err)
		return Result{Error: &ErrorDto{Code: e.Code, Name: e.Name, Message: e.Message}}
	}
	return Result{Error: &ErrorDto{Code: e.Code, Name: e.Name, Message: e.Message, Details: e.Details}}
}
