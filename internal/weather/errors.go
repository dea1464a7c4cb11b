package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInput marks unusable user input such as an empty station list
var ErrInput = errors.New("invalid input")

// TransportError is a failed request that produced no HTTP response
type TransportError struct {
	Kind     Kind
	Stations string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error making %s request for %s: %v", e.Kind.Label(), e.Stations, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError is a non-2xx response; the body is kept for display
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// MalformedResponseError is a response that does not have the expected shape
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// TimeParseError is a timestamp field that could not be parsed
type TimeParseError struct {
	Field string
	Value string
	Err   error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("cannot parse %s time %q: %v", e.Field, e.Value, e.Err)
}

func (e *TimeParseError) Unwrap() error { return e.Err }
