package provider

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common transport failures.
var (
	ErrNoChoices       = errors.New("no choices in response")
	ErrContentBlocked  = errors.New("content blocked by safety filters")
	ErrEmptyToolName   = errors.New("tool call without a function name")
	ErrInvalidResponse = errors.New("invalid response")
)

// ErrorCode classifies a TransportError.
type ErrorCode string

const (
	ErrorCodeContextLength  ErrorCode = "context_length_exceeded"
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeTimeout        ErrorCode = "timeout"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeUnknown        ErrorCode = "unknown"
)

// TransportError is a provider or network failure during Send.
type TransportError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retryable  bool
	RetryAfter *time.Duration
}

func (e *TransportError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns true if err is a TransportError marked retryable.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return false
}

// GetRetryAfter returns the retry-after hint carried by err, if any.
func GetRetryAfter(err error) *time.Duration {
	var te *TransportError
	if errors.As(err, &te) {
		return te.RetryAfter
	}
	return nil
}

// MalformedToolCallError reports a tool call whose arguments could not be decoded.
type MalformedToolCallError struct {
	CallID   string
	ToolName string
	Raw      string
	Err      error
}

func (e *MalformedToolCallError) Error() string {
	return fmt.Sprintf("malformed tool call %q (%s): %v", e.ToolName, e.CallID, e.Err)
}

func (e *MalformedToolCallError) Unwrap() error {
	return e.Err
}
