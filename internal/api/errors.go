package api

import (
	"errors"
	"fmt"
)

// TransportError covers network failures, non-2xx statuses and response
// bodies that do not conform to the endpoint contract. The whole request
// did not process; retrying the triggering action is always safe.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DomainError is a well-formed response reporting a failure reason
// (success:false or an error field). The server processed the request
// and rejected it.
type DomainError struct {
	Op      string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsDomain reports whether err is a server-reported domain failure.
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
