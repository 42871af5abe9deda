package hubsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies why a call through the gateway failed.
type ErrorKind int

const (
	// KindStatus means the server answered with a non-2xx status.
	KindStatus ErrorKind = iota + 1
	// KindTransport means the request could not be sent or the response could
	// not be read. Context cancellation lands here too.
	KindTransport
	// KindDecode means a 2xx body was not valid JSON for the expected type.
	KindDecode
	// KindRequest means the request could not be built.
	KindRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Error is returned by every gateway call that does not succeed. Callers match
// it with errors.As and switch on Kind.
type Error struct {
	Kind ErrorKind

	// StatusCode is the HTTP status for KindStatus, zero otherwise.
	StatusCode int

	// Message is what should be shown to a person: the server's error field,
	// "HTTP <status>" when the server sent none, or the cause's text.
	Message string

	// Err is the underlying cause for transport, decode and request failures.
	Err error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// errorBody is the only error shape the API promises.
type errorBody struct {
	Error string `json:"error"`
}

// statusError turns a non-2xx response into an *Error. The server's error
// field wins; anything else (no body, HTML, a JSON body without the field)
// becomes "HTTP <status>".
func statusError(status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP %d", status)

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && strings.TrimSpace(eb.Error) != "" {
		msg = eb.Error
	}

	return &Error{Kind: KindStatus, StatusCode: status, Message: msg}
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

// AsError unwraps err to an *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.StatusCode
	}
	return 0
}

// IsStatus reports whether err is a KindStatus error with the given code.
func IsStatus(err error, code int) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindStatus && e.StatusCode == code
}

// IsUnauthorized reports whether the server rejected the launch credential.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// Message returns the human readable message of err. Non-gateway errors
// return their own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := AsError(err); ok {
		return e.Message
	}
	return err.Error()
}
