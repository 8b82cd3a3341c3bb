package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKind_StatusAndDefaults(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		detail string
	}{
		{KindUserNotFound, http.StatusNotFound, "User not found"},
		{KindAnnouncementNotFound, http.StatusNotFound, "Announcement not found"},
		{KindUnauthorized, http.StatusForbidden, "You do not have permission to perform this action"},
		{KindValidation, http.StatusBadRequest, "Validation error"},
		{KindInternal, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.kind, got, tt.status)
		}
		if got := (&Error{Kind: tt.kind}).Message(); got != tt.detail {
			t.Errorf("%s: message = %q, want %q", tt.kind, got, tt.detail)
		}
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewAnnouncementNotFound("Invalid page."))

	if !errors.Is(err, ErrAnnouncementNotFound) {
		t.Fatal("expected wrapped error to match ErrAnnouncementNotFound")
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Fatal("announcement error must not match ErrUserNotFound")
	}

	de, ok := AsError(err)
	if !ok {
		t.Fatal("AsError did not find the domain error")
	}
	if de.Message() != "Invalid page." {
		t.Fatalf("detail override lost: %q", de.Message())
	}
}

func TestError_Payload(t *testing.T) {
	fe := FieldErrors{}
	if fe.Err() != nil {
		t.Fatal("empty field errors must not produce an error")
	}

	fe.Add("email", "Email already exists")
	err := fe.Err()

	de, ok := AsError(err)
	if !ok || de.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	payload, ok := de.Payload().(FieldErrors)
	if !ok {
		t.Fatalf("expected field map payload, got %T", de.Payload())
	}
	if payload["email"][0] != "Email already exists" {
		t.Fatalf("unexpected payload: %v", payload)
	}

	if got := NewUnauthorized("").Payload(); got != "You do not have permission to perform this action" {
		t.Fatalf("unexpected string payload: %v", got)
	}
}
