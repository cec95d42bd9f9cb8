package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("HGETALL", "sess:abc", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !strings.Contains(err.Error(), "HGETALL") {
		t.Errorf("Error() = %q, want operation name included", err.Error())
	}
	if !strings.Contains(err.Error(), "sess:abc") {
		t.Errorf("Error() = %q, want key included", err.Error())
	}
}

func TestStoreErrorNoCause(t *testing.T) {
	err := NewStoreError("DEL", "otp:+8801712345678", nil)
	if strings.Contains(err.Error(), "cause") {
		t.Errorf("Error() = %q, should not mention cause", err.Error())
	}
}

func TestBackendErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := NewBackendError("radius", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !strings.Contains(err.Error(), "radius") {
		t.Errorf("Error() = %q, want backendID included", err.Error())
	}
}

func TestBackendErrorWrapping(t *testing.T) {
	err := fmt.Errorf("resolve failed: %w", NewBackendError("radclient", nil))

	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatal("errors.As should find BackendError")
	}
	if be.BackendID != "radclient" {
		t.Errorf("BackendID = %q, want %q", be.BackendID, "radclient")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("mobile_number", "unrecognized format")
	want := "validation error: field=mobile_number, message=unrecognized format"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSentinelDistinct(t *testing.T) {
	// 判定コードは互いに独立していること
	sentinels := []error{
		ErrUserNotFound, ErrBadSecret, ErrCredentialExpired,
		ErrMalformedIdentifier, ErrBackendUnavailable,
		ErrRateLimited, ErrConcurrencyLimit, ErrDailyLimit, ErrMonthlyLimit,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}
