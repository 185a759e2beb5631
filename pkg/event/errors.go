package event

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError carries a status for the client. Status below 500 is a client
// error surfaced with its message.
type HTTPError struct {
	Status  int
	Message string
	Details any
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NewError builds an HTTPError.
func NewError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// WithDetails attaches structured details to the error body.
func (e *HTTPError) WithDetails(d any) *HTTPError {
	e.Details = d
	return e
}

// WithCause records the underlying error without changing the message.
func (e *HTTPError) WithCause(err error) *HTTPError {
	e.Err = err
	return e
}

func BadRequest(msg string) *HTTPError      { return NewError(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *HTTPError    { return NewError(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *HTTPError       { return NewError(http.StatusForbidden, msg) }
func NotFound(msg string) *HTTPError        { return NewError(http.StatusNotFound, msg) }
func TooManyRequests(msg string) *HTTPError { return NewError(http.StatusTooManyRequests, msg) }

type statusCoder interface{ StatusCode() int }

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) && he.Status > 0 {
		return he.Status
	}
	var sc statusCoder
	if errors.As(err, &sc) && sc.StatusCode() > 0 {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// DetailsOf returns the details carried by an HTTPError in err's chain.
func DetailsOf(err error) any {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Details
	}
	return nil
}

// PanicError is a recovered panic from a pipeline stage.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// ErrorPayload is a normalised error body. Status is also sent as the
// response status.
type ErrorPayload struct {
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Empty reports whether p carries nothing.
func (p *ErrorPayload) Empty() bool {
	return p == nil || (p.Status == 0 && p.Error == "" && p.Message == "" && p.Code == "" && p.Details == nil)
}

// genericBody is sent when no error hook handled err.
func genericBody(err error) map[string]any {
	msg := err.Error()
	var pe *PanicError
	if errors.As(err, &pe) || msg == "" {
		msg = http.StatusText(http.StatusInternalServerError)
	}
	body := map[string]any{"error": msg}
	if d := DetailsOf(err); d != nil {
		body["details"] = d
	}
	return body
}
