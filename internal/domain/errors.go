package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

// ErrUnknownMarket marks a leg whose market type is outside the supported
// set. This is a data-integrity problem, not a lost bet, and must never be
// coerced to a loss.
func ErrUnknownMarket(mt MarketType) *AppError {
	return &AppError{Code: "UNKNOWN_MARKET", Message: fmt.Sprintf("unrecognized market type %q", mt), Status: 422}
}

// ErrProviderFetch wraps a failed odds-provider call for a sport.
func ErrProviderFetch(sportKey string, cause error) *AppError {
	return &AppError{Code: "PROVIDER_FETCH_FAILED", Message: fmt.Sprintf("odds provider fetch failed for %s", sportKey), Status: 502, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
