package environment_test

import (
	"testing"
	"time"

	"github.com/malakhossam/murshid/common/environment"
)

func TestStringOr(t *testing.T) {
	t.Setenv("TEST_STRING", "marhaba")
	if got := environment.StringOr("TEST_STRING", "default"); got != "marhaba" {
		t.Errorf("expected %q, got %q", "marhaba", got)
	}
	if got := environment.StringOr("TEST_STRING_MISSING", "default"); got != "default" {
		t.Errorf("expected %q, got %q", "default", got)
	}
}

func TestRequiredString(t *testing.T) {
	t.Setenv("TEST_REQUIRED", "value")
	v, err := environment.RequiredString("TEST_REQUIRED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "value" {
		t.Errorf("expected %q, got %q", "value", v)
	}

	if _, err := environment.RequiredString("TEST_REQUIRED_MISSING"); err == nil {
		t.Error("expected error for missing variable, got nil")
	}
}

func TestIntOr(t *testing.T) {
	t.Setenv("TEST_INT", "25")
	if got := environment.IntOr("TEST_INT", 0); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
	if got := environment.IntOr("TEST_INT_MISSING", 9); got != 9 {
		t.Errorf("expected 9, got %d", got)
	}
	t.Setenv("TEST_INT_BAD", "not-a-number")
	if got := environment.IntOr("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("expected default 7 for bad value, got %d", got)
	}
}

func TestDurationOr(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	if got := environment.DurationOr("TEST_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("expected 45s, got %v", got)
	}
	if got := environment.DurationOr("TEST_DURATION_MISSING", time.Minute); got != time.Minute {
		t.Errorf("expected default 1m, got %v", got)
	}
}
