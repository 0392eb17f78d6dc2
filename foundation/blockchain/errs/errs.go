// Package errs defines the error kinds shared by the blockchain packages.
package errs

import (
	"errors"
)

// The set of error kinds a caller can test for with errors.Is.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidKey         = errors.New("invalid key")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrAccountNotFound    = errors.New("account not found")
	ErrRejected           = errors.New("rejected")
	ErrContractExecution  = errors.New("contract execution error")
)

// RemoteError carries a message reported by the ledger node. The message is
// returned verbatim by Error so callers can surface it as is.
type RemoteError struct {
	Kind    error
	Code    string
	Message string
}

// NewRemoteError constructs a RemoteError of the specified kind.
func NewRemoteError(kind error, code string, message string) *RemoteError {
	return &RemoteError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface.
func (re *RemoteError) Error() string {
	if re.Message == "" {
		return re.Kind.Error()
	}
	return re.Message
}

// Unwrap allows errors.Is to match on the kind.
func (re *RemoteError) Unwrap() error {
	return re.Kind
}

// Kind returns the error kind the specified error wraps, or nil if the error
// is not one of the known kinds.
func Kind(err error) error {
	for _, kind := range []error{
		ErrInvalidArgument,
		ErrInvalidKey,
		ErrNetworkUnavailable,
		ErrAccountNotFound,
		ErrRejected,
		ErrContractExecution,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// IsRetryable reports whether the whole request can be retried as is. The
// caller must fetch a fresh nonce before resubmitting.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable)
}
