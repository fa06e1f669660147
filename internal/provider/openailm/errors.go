package openailm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/openai/openai-go/v3"
)

// mapError converts SDK and network errors to transport errors. Cancellation
// is returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return mapStatus(apiErr, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &provider.TransportError{
			Code:       provider.ErrorCodeTimeout,
			Message:    "request timed out",
			Underlying: err,
			Retryable:  true,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &provider.TransportError{
			Code:       provider.ErrorCodeTimeout,
			Message:    "request timed out",
			Underlying: err,
			Retryable:  true,
		}
	}

	return &provider.TransportError{
		Code:       provider.ErrorCodeNetwork,
		Message:    "network error",
		Underlying: err,
		Retryable:  true,
	}
}

func mapStatus(apiErr *openai.Error, err error) error {
	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}

	switch code := apiErr.StatusCode; {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &provider.TransportError{
			Code:       provider.ErrorCodeAuth,
			Message:    "authentication failed",
			Underlying: err,
		}
	case code == http.StatusTooManyRequests:
		return &provider.TransportError{
			Code:       provider.ErrorCodeRateLimit,
			Message:    "rate limit exceeded",
			Underlying: err,
			Retryable:  true,
			RetryAfter: parseRetryAfter(header),
		}
	case code == http.StatusRequestTimeout:
		return &provider.TransportError{
			Code:       provider.ErrorCodeTimeout,
			Message:    "request timed out",
			Underlying: err,
			Retryable:  true,
		}
	case code == http.StatusRequestEntityTooLarge || isContextLength(apiErr):
		return &provider.TransportError{
			Code:       provider.ErrorCodeContextLength,
			Message:    "context length exceeded",
			Underlying: err,
		}
	case code >= 500:
		return &provider.TransportError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    "service unavailable",
			Underlying: err,
			Retryable:  true,
		}
	case code >= 400:
		return &provider.TransportError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    fmt.Sprintf("invalid request: %s", apiErr.Message),
			Underlying: err,
		}
	default:
		return &provider.TransportError{
			Code:       provider.ErrorCodeUnknown,
			Message:    fmt.Sprintf("API error: %s", apiErr.Message),
			Underlying: err,
		}
	}
}

func isContextLength(apiErr *openai.Error) bool {
	return apiErr.Code == "context_length_exceeded" ||
		strings.Contains(strings.ToLower(apiErr.Message), "context length")
}

// parseRetryAfter reads retry-after (seconds or HTTP date) and falls back to
// x-ratelimit-reset-requests (a Go duration such as "6m0s" or plain seconds).
func parseRetryAfter(h http.Header) *time.Duration {
	if h == nil {
		return nil
	}

	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			d := time.Duration(secs * float64(time.Second))
			return &d
		}
		if at, err := http.ParseTime(v); err == nil {
			d := time.Until(at)
			if d < 0 {
				d = 0
			}
			return &d
		}
	}

	if v := h.Get("X-Ratelimit-Reset-Requests"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return &d
		}
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			d := time.Duration(secs * float64(time.Second))
			return &d
		}
	}

	return nil
}
