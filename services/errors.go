package services

import (
	"errors"
	"net/http"
)

// Stable error codes surfaced to API clients. Controllers map these to HTTP
// statuses; no operation is retried automatically.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeIDOR             = "IDOR"
	CodeImmutableLock    = "IMMUTABLE_LOCK"
	CodeRaceCondition    = "RACE_CONDITION"
	CodeInvalidStatus    = "INVALID_STATUS"
	CodeDuplicateReceipt = "DUPLICATE_RECEIPT"
	CodeSKUNotFound      = "SKU_NOT_FOUND"
	CodeDBError          = "DB_ERROR"
)

// ServiceError is a terminal, user-facing failure with a stable code
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func newError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// ErrCode extracts the service error code, or DB_ERROR for unclassified errors
func ErrCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeDBError
}

// HTTPStatus maps a service error to the HTTP status controllers should return
func HTTPStatus(err error) int {
	switch ErrCode(err) {
	case CodeValidation, CodeInvalidStatus, CodeSKUNotFound:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden, CodeIDOR, CodeImmutableLock:
		return http.StatusForbidden
	case CodeRaceCondition, CodeDuplicateReceipt:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
