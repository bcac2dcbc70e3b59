package research

import (
	"context"
	"errors"
	"net"
)

// Error is the structured failure type for backend calls. Frame-level
// problems in the stream never surface here; only transport and HTTP-level
// failures do.
type Error struct {
	Op        string // "ask", "speech", "details"
	Code      string
	Status    int
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" && e.Message != "" {
		return e.Op + ": " + e.Message
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Op != "" {
		return e.Op + ": error"
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.Cause }

func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Status == 429 || e.Code == "rate_limited")
}

func IsTimeout(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == "timeout" {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func IsCanceled(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == "canceled" {
		return true
	}
	return errors.Is(err, context.Canceled)
}

func classifyNetworkErr(err error) (code string, retryable bool) {
	if err == nil {
		return "network_error", false
	}
	if errors.Is(err, context.Canceled) {
		return "canceled", false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout", true
	}
	return "network_error", true
}
