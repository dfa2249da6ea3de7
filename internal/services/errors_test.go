package services_test

import (
	"errors"
	"strings"
	"testing"

	"timemachine/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "publish", "create page", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"publish", "create page", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestFailureOutcomeMapping(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "schema", "gender", "invalid", nil)
	if outcome := services.FailureOutcome(validationErr); outcome != services.OutcomeRejected {
		t.Fatalf("expected rejected for validation error, got %s", outcome)
	}

	rateErr := services.Wrap(services.ErrRateLimited, "notion", "create page", "429", nil)
	if outcome := services.FailureOutcome(rateErr); outcome != services.OutcomeFailed {
		t.Fatalf("expected failed for rate limit error, got %s", outcome)
	}

	if outcome := services.FailureOutcome(nil); outcome != services.OutcomeFailed {
		t.Fatalf("expected failed for nil error, got %s", outcome)
	}
}

func TestIsRetriable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{services.Wrap(services.ErrRateLimited, "notion", "", "", nil), true},
		{services.Wrap(services.ErrTransient, "notion", "", "", nil), true},
		{services.Wrap(services.ErrTimeout, "notion", "", "", nil), true},
		{services.Wrap(services.ErrValidation, "notion", "", "", nil), false},
		{errors.New("plain"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := services.IsRetriable(tc.err); got != tc.want {
			t.Fatalf("IsRetriable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
