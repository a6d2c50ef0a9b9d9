package model

import (
	"testing"
	"time"

	apperrors "parking/pkg/errors"
)

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"canonical unchanged", "2024-05-01 09:00:00", "2024-05-01 09:00:00"},
		{"datetime-local without seconds", "2024-05-01T09:00", "2024-05-01 09:00:00"},
		{"separator with seconds", "2024-05-01T09:00:30", "2024-05-01 09:00:30"},
		{"garbage passes through", "tomorrow", "tomorrow"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTimestamp(tt.in); got != tt.want {
				t.Errorf("NormalizeTimestamp(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-05-01 09:30:00", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if FormatTimestamp(got) != "2024-05-01 09:30:00" {
		t.Errorf("FormatTimestamp round trip failed: %s", FormatTimestamp(got))
	}
}

func TestParseTimestamp_InvalidIsValidationError(t *testing.T) {
	for _, in := range []string{"tomorrow", "2024-05-01T09:00", "2024-13-01 09:00:00", ""} {
		_, err := ParseTimestamp(in, time.UTC)
		if err == nil {
			t.Fatalf("expected error for %q", in)
		}
		if !apperrors.HasCode(err, apperrors.CodeValidation) {
			t.Errorf("expected validation error for %q, got %v", in, err)
		}
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	if BookingActive.IsTerminal() {
		t.Error("ACTIVE must not be terminal")
	}
	if !BookingCompleted.IsTerminal() || !BookingCancelled.IsTerminal() {
		t.Error("COMPLETED and CANCELLED must be terminal")
	}
}
