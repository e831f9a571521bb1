package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNavError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeElementNotFound, "element not found")
	if err.Code != ErrCodeElementNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeElementNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeServerFailed, "listen failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeServerFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeElementNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Wrapped by fmt.Errorf
	outer := fmt.Errorf("starting: %w", wrapped)
	if GetCode(outer) != ErrCodeServerFailed {
		t.Errorf("GetCode should see through %%w wrapping, got %q", GetCode(outer))
	}
	if Is(fmt.Errorf("plain"), "") {
		t.Error("plain errors have no code")
	}

	// Test WithDetail
	detailed := err.WithDetail("element", "play").WithDetail("index", 3)
	if detailed.Details["element"] != "play" {
		t.Error("WithDetail should add details")
	}
	if !strings.Contains(detailed.ToJSON(), `"code": "ELEMENT_NOT_FOUND"`) {
		t.Errorf("ToJSON missing code: %s", detailed.ToJSON())
	}
}

func TestErrorConstructors(t *testing.T) {
	err := DeviceNotFound("js0")
	if err.Code != ErrCodeDeviceNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeDeviceNotFound, err.Code)
	}
	if err.Details["device"] != "js0" {
		t.Error("DeviceNotFound should include device detail")
	}

	err = LayoutInvalid("page.yml", "duplicate id")
	if err.Code != ErrCodeLayoutInvalid {
		t.Errorf("expected code %s, got %s", ErrCodeLayoutInvalid, err.Code)
	}
	if err.Details["path"] != "page.yml" {
		t.Error("LayoutInvalid should include path detail")
	}
	if _, ok := LayoutInvalid("", "x").Details["path"]; ok {
		t.Error("LayoutInvalid without path should not add a detail")
	}

	cause := fmt.Errorf("no such directory")
	err = DeviceUnavailable("/dev/input", cause)
	if err.Cause != cause || err.Code != ErrCodeDeviceUnavailable {
		t.Error("DeviceUnavailable should wrap the cause")
	}
}

func TestAsNavError(t *testing.T) {
	inner := ServerFailed(":80", fmt.Errorf("in use"))
	got, ok := AsNavError(fmt.Errorf("outer: %w", inner))
	if !ok || got != inner {
		t.Fatalf("AsNavError = %v, %v", got, ok)
	}
	if _, ok := AsNavError(fmt.Errorf("plain")); ok {
		t.Error("plain errors are not NavErrors")
	}
}
