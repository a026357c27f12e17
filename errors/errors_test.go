package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestAppError_ErrorString(t *testing.T) {
	err := New(ErrCodeTimeout, "request timed out")
	want := "TIMEOUT: request timed out"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	withCause := New(ErrCodeConnectionFailed, "dial failed").WithCause(stderrors.New("refused"))
	if got := withCause.Error(); got != "CONNECTION_FAILED: dial failed (cause: refused)" {
		t.Errorf("unexpected error string: %q", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("socket closed")
	err := ConnectionFailed("qdrant").WithCause(cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestNew_DetectsRetryableFromCode(t *testing.T) {
	if !New(ErrCodeServiceUnavailable, "down").Retryable {
		t.Error("SERVICE_UNAVAILABLE should be retryable")
	}
	if New(ErrCodeInvalidInput, "bad").Retryable {
		t.Error("INVALID_INPUT should not be retryable")
	}
	if New(ErrCodeInternal, "oops").Retryable {
		t.Error("INTERNAL_ERROR should not be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", RateLimited(0), true},
		{"timeout", Timeout("completion"), true},
		{"server error", ServerError(503), true},
		{"invalid input", InvalidInput("empty prompt"), false},
		{"unauthorized", Unauthorized(""), false},
		{"wrapped app error", fmt.Errorf("calling api: %w", ServerError(500)), true},
		{"plain error", stderrors.New("unknown"), false},
		{"nil-ish unknown", fmt.Errorf("oops"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRetryAfterHint(t *testing.T) {
	hint, ok := RetryAfterHint(RateLimited(7 * time.Second))
	if !ok || hint != 7*time.Second {
		t.Errorf("expected 7s hint, got %v ok=%v", hint, ok)
	}

	if _, ok := RetryAfterHint(RateLimited(0)); ok {
		t.Error("expected no hint when server gave none")
	}

	if _, ok := RetryAfterHint(stderrors.New("plain")); ok {
		t.Error("expected no hint for plain errors")
	}

	// Hints survive wrapping.
	wrapped := fmt.Errorf("chat: %w", RateLimited(2*time.Second))
	hint, ok = RetryAfterHint(wrapped)
	if !ok || hint != 2*time.Second {
		t.Errorf("expected 2s hint through wrapping, got %v ok=%v", hint, ok)
	}
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(fmt.Errorf("outer: %w", NotFound("model")))
	if !ok {
		t.Fatal("expected AppError")
	}
	if appErr.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected no AppError for plain error")
	}
}

func TestWithDetail(t *testing.T) {
	err := ServerError(502).WithDetail("endpoint", "/v1/chat")
	if err.Details["endpoint"] != "/v1/chat" {
		t.Errorf("expected detail to be set, got %v", err.Details)
	}
}
