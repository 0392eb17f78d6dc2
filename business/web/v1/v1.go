// Package v1 represents types used by the web application for v1.
package v1

import (
	"errors"
	"net/http"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

// ErrorResponse is the form used for API responses from failures in the API.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RequestError is used to pass an error during the request through the
// application with web specific context.
type RequestError struct {
	Err    error
	Status int
}

// NewRequestError wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewRequestError(err error, status int) error {
	return &RequestError{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *RequestError) Error() string {
	return re.Err.Error()
}

// Unwrap allows the kind of the wrapped error to be matched.
func (re *RequestError) Unwrap() error {
	return re.Err
}

// IsRequestError checks if an error of type RequestError exists.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// GetRequestError returns a copy of the RequestError pointer.
func GetRequestError(err error) *RequestError {
	var re *RequestError
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// NewLedgerError wraps an error returned by the ledger packages with the
// status code matching its kind. It returns nil for errors of no known kind.
func NewLedgerError(err error) error {
	kind := errs.Kind(err)
	if kind == nil {
		return nil
	}

	return NewRequestError(err, StatusFor(kind))
}

// StatusFor returns the HTTP status code for an error kind.
func StatusFor(kind error) int {
	switch kind {
	case errs.ErrInvalidArgument, errs.ErrInvalidKey:
		return http.StatusBadRequest
	case errs.ErrAccountNotFound:
		return http.StatusNotFound
	case errs.ErrRejected, errs.ErrContractExecution:
		return http.StatusUnprocessableEntity
	case errs.ErrNetworkUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// KindName returns the machine readable name of an error kind.
func KindName(kind error) string {
	switch kind {
	case errs.ErrInvalidArgument:
		return "invalid_argument"
	case errs.ErrInvalidKey:
		return "invalid_key"
	case errs.ErrAccountNotFound:
		return "account_not_found"
	case errs.ErrRejected:
		return "rejected"
	case errs.ErrContractExecution:
		return "contract_execution"
	case errs.ErrNetworkUnavailable:
		return "network_unavailable"
	}
	return ""
}
