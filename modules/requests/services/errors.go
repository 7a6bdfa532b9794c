package services

import (
	"fmt"
)

type ServiceError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Meta    map[string]string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newServiceError(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

// RemoteError marks a failure inside the approval pipeline's remote side
// effects. The request's status is left untouched, so the operation is safely
// retryable by re-invoking approve.
type RemoteError struct {
	Stage string // "entity" or "credentials"
	Cause error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s creation failed: %v", e.Stage, e.Cause)
}

func (e *RemoteError) Unwrap() error { return e.Cause }
