// Package errors carries the categorized error type the services return and
// the HTTP layer translates into status codes.
package errors

import (
	"errors"
	"net/http"
)

// Category classifies a ServiceError.
type Category int

const (
	CategoryNoError Category = iota
	// CategoryDataError: the request carried invalid input.
	CategoryDataError
	// CategoryUnauthorized: missing or invalid credentials.
	CategoryUnauthorized
	// CategoryForbidden: valid credentials without the required rights.
	CategoryForbidden
	CategoryResourceNotFound
	// CategoryDataConflict: the request contradicts current state, including
	// contract reverts.
	CategoryDataConflict
	// CategoryLocked: the resource cannot be acted on right now.
	CategoryLocked
	// CategoryDependencyFailure: the wallet provider or chain RPC failed.
	CategoryDependencyFailure
	CategoryGeneralError
	// CategoryRecovering: data the request needs is still loading.
	CategoryRecovering
	CategoryConnectionTimeout
)

var categories = map[Category]struct {
	name   string
	status int
}{
	CategoryDataError:         {"CategoryDataError", http.StatusBadRequest},
	CategoryUnauthorized:      {"CategoryUnauthorized", http.StatusUnauthorized},
	CategoryForbidden:         {"CategoryForbidden", http.StatusForbidden},
	CategoryResourceNotFound:  {"CategoryResourceNotFound", http.StatusNotFound},
	CategoryDataConflict:      {"CategoryDataConflict", http.StatusConflict},
	CategoryLocked:            {"CategoryLocked", http.StatusLocked},
	CategoryDependencyFailure: {"CategoryDependencyFailure", http.StatusBadGateway},
	CategoryGeneralError:      {"CategoryGeneralError", http.StatusInternalServerError},
	CategoryRecovering:        {"CategoryRecovering", http.StatusServiceUnavailable},
	CategoryConnectionTimeout: {"CategoryConnectionTimeout", http.StatusGatewayTimeout},
}

func (c Category) String() string {
	if info, ok := categories[c]; ok {
		return info.name
	}
	return "CategoryGeneralError"
}

// ServiceError pairs a user-facing Message with the underlying Err, which is
// only logged.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is matches any error whose text equals Message.
func (err ServiceError) Is(target error) bool {
	return err.Message == target.Error()
}

// StatusCode returns the HTTP status for the category.
func (err ServiceError) StatusCode() int {
	if info, ok := categories[err.Category]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Is reports whether err is a ServiceError of category cat.
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsInternalError reports whether err should be treated as a server-side
// failure: anything uncategorized or in a dependency/general category.
func IsInternalError(err error) bool {
	var svcErr *ServiceError
	return !errors.As(err, &svcErr) || svcErr.Category >= CategoryDependencyFailure
}

func newError(cat Category, err error, fallback, message string) error {
	if err == nil {
		err = errors.New(fallback)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error".
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "internal server error", "Internal Server Error")
}

func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, "resource not found: "+message, message)
}

func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, "bad request: "+message, message)
}

func ForbiddenError(err error, message string) error {
	return newError(CategoryForbidden, err, "request forbidden", message)
}

func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, "unauthorized", message)
}

func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, "conflict", message)
}

func LockedError(err error, message string) error {
	return newError(CategoryLocked, err, "locked", message)
}

// DependencyFailureError is used when the wallet provider or the chain RPC
// misbehaves.
func DependencyFailureError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, "dependency failure", message)
}

// RecoveringError is used while data the request needs has not been loaded yet.
func RecoveringError(err error, message string) error {
	return newError(CategoryRecovering, err, "service recovering", message)
}

func ConnectionTimeoutError(err error, message string) error {
	return newError(CategoryConnectionTimeout, err, "connection timeout", message)
}
