package api

import (
	"errors"
	"testing"
	"time"
)

func TestToWireDateTime(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "wire format passthrough", input: "2025-03-08 14:30:00", want: "2025-03-08 14:30:00"},
		{name: "ISO with positive offset keeps civil fields", input: "2025-03-08T14:30:00+10:00", want: "2025-03-08 14:30:00"},
		{name: "ISO with negative offset keeps civil fields", input: "2025-03-08T14:30:00-05:00", want: "2025-03-08 14:30:00"},
		{name: "ISO with Z", input: "2025-03-08T14:30:00Z", want: "2025-03-08 14:30:00"},
		{name: "ISO without offset", input: "2025-03-08T14:30:00", want: "2025-03-08 14:30:00"},
		{name: "ISO without seconds", input: "2025-03-08T14:30", want: "2025-03-08 14:30:00"},
		{name: "space separator without seconds", input: "2025-03-08 14:30", want: "2025-03-08 14:30:00"},
		{name: "date only", input: "2025-03-08", want: "2025-03-08 00:00:00"},
		{name: "empty string", input: "", want: ""},
		{name: "nil", input: nil, want: ""},
		{name: "unix seconds int", input: 1741444200, want: "2025-03-08 14:30:00"},
		{name: "unix seconds int64", input: int64(1741444200), want: "2025-03-08 14:30:00"},
		{name: "unix seconds float64", input: float64(1741444200), want: "2025-03-08 14:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToWireDateTime(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToWireDateTime(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToWireDateTimeIdempotent(t *testing.T) {
	once, err := ToWireDateTime("2025-03-08T14:30:00+10:00")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	twice, err := ToWireDateTime(once)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if once != twice {
		t.Errorf("Expected idempotent conversion, got %q then %q", once, twice)
	}
}

func TestToWireDateTimeTime(t *testing.T) {
	loc := time.FixedZone("AEST", 10*3600)
	got, err := ToWireDateTime(time.Date(2025, 3, 8, 14, 30, 0, 0, loc))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "2025-03-08 14:30:00" {
		t.Errorf("Expected civil fields preserved, got %q", got)
	}
}

func TestToWireDateTimeErrors(t *testing.T) {
	_, err := ToWireDateTime("not a date")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}

	_, err = ToWireDateTime(time.Time{})
	if !errors.Is(err, ErrInvalidDateTime) {
		t.Errorf("Expected ErrInvalidDateTime for zero time, got %v", err)
	}

	_, err = ToWireDateTime([]string{"nope"})
	if !errors.Is(err, ErrUnsupportedDateType) {
		t.Errorf("Expected ErrUnsupportedDateType, got %v", err)
	}

	if !IsValidationError(err) {
		t.Error("Expected datetime failures to count as validation errors")
	}
}
