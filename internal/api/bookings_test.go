package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateFixedBookingMissingEndDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Expected no HTTP call, got %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	_, err := client.Bookings().Create(context.Background(), CreateBookingParams{
		Type:      BookingFixed,
		JobUUID:   "job-1",
		StaffUUID: "staff-1",
		StartDate: "2025-03-08 09:00:00",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if vErr.Reason != "End Time is required" {
		t.Errorf("Expected reason 'End Time is required', got %q", vErr.Reason)
	}
	if vErr.Field != "end_date" {
		t.Errorf("Expected field 'end_date', got %q", vErr.Field)
	}
}

func TestCreateFixedBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_1.0/jobactivity.json" {
			t.Errorf("Expected path /api_1.0/jobactivity.json, got %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if got["start_date"] != "2025-03-08 09:00:00" {
			t.Errorf("Expected normalized start_date, got %v", got["start_date"])
		}
		if got["end_date"] != "2025-03-08 11:00:00" {
			t.Errorf("Expected normalized end_date, got %v", got["end_date"])
		}
		if got["activity_was_scheduled"] != float64(1) {
			t.Errorf("Expected activity_was_scheduled 1, got %v", got["activity_was_scheduled"])
		}
		w.Header().Set("x-record-uuid", "act-1")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	uuid, err := client.Bookings().Create(context.Background(), CreateBookingParams{
		Type:      BookingFixed,
		JobUUID:   "job-1",
		StaffUUID: "staff-1",
		StartDate: "2025-03-08T09:00:00+10:00",
		EndDate:   "2025-03-08T11:00:00+10:00",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if uuid != "act-1" {
		t.Errorf("Expected UUID 'act-1', got %q", uuid)
	}
}

func TestCreateFlexibleBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_1.0/joballocation.json" {
			t.Errorf("Expected path /api_1.0/joballocation.json, got %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if got["allocation_date"] != "2025-03-10 00:00:00" {
			t.Errorf("Expected normalized allocation_date, got %v", got["allocation_date"])
		}
		if got["allocation_window_uuid"] != "win-1" {
			t.Errorf("Expected allocation_window_uuid, got %v", got["allocation_window_uuid"])
		}
		if _, ok := got["expiry_timestamp"]; ok {
			t.Error("Expected empty expiry to be omitted")
		}
		w.Header().Set("x-record-uuid", "alloc-1")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	uuid, err := client.Bookings().Create(context.Background(), CreateBookingParams{
		Type:                 BookingFlexible,
		JobUUID:              "job-1",
		StaffUUID:            "staff-1",
		AllocationDate:       "2025-03-10",
		AllocationWindowUUID: "win-1",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if uuid != "alloc-1" {
		t.Errorf("Expected UUID 'alloc-1', got %q", uuid)
	}
}

func TestCreateFlexibleBookingMissingAllocationDate(t *testing.T) {
	client := newTestClient("http://unused.invalid", "test-key")
	_, err := client.Bookings().Create(context.Background(), CreateBookingParams{
		Type:      BookingFlexible,
		JobUUID:   "job-1",
		StaffUUID: "staff-1",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if vErr.Field != "allocation_date" {
		t.Errorf("Expected field 'allocation_date', got %q", vErr.Field)
	}
}

func TestCreateBookingUnknownType(t *testing.T) {
	client := newTestClient("http://unused.invalid", "test-key")
	_, err := client.Bookings().Create(context.Background(), CreateBookingParams{Type: "sometime"})
	if !IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestBookingTypeDispatchBeforeValidation(t *testing.T) {
	// A fixed booking missing only fixed-type inputs must not trip over
	// flexible-type requirements, and vice versa.
	client := newTestClient("http://unused.invalid", "test-key")

	_, err := client.Bookings().Create(context.Background(), CreateBookingParams{
		Type:           BookingFixed,
		JobUUID:        "job-1",
		StaffUUID:      "staff-1",
		AllocationDate: "2025-03-10",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if vErr.Field != "start_date" {
		t.Errorf("Expected fixed booking to demand start_date, got %q", vErr.Field)
	}

	_, err = client.Bookings().Create(context.Background(), CreateBookingParams{
		Type:      BookingFlexible,
		JobUUID:   "job-1",
		StaffUUID: "staff-1",
		StartDate: "2025-03-10 09:00:00",
		EndDate:   "2025-03-10 10:00:00",
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if vErr.Field != "allocation_date" {
		t.Errorf("Expected flexible booking to demand allocation_date, got %q", vErr.Field)
	}
}

func TestEndFromDuration(t *testing.T) {
	end, err := EndFromDuration("2025-03-08 09:00:00", 90)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if end != "2025-03-08 10:30:00" {
		t.Errorf("Expected '2025-03-08 10:30:00', got %q", end)
	}

	if _, err := EndFromDuration("2025-03-08 09:00:00", 0); !IsValidationError(err) {
		t.Errorf("Expected validation error for zero duration, got %v", err)
	}
}

func TestListFixedInjectsScheduledPredicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("$filter")
		want := "job_uuid eq 'job-1' and active eq '1' and activity_was_scheduled eq '1'"
		if filter != want {
			t.Errorf("Expected filter %q, got %q", want, filter)
		}
		_, _ = w.Write([]byte(`[{"uuid": "act-1", "activity_was_scheduled": "1"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	records, err := client.Bookings().ListFixed(context.Background(), ListBookingsOptions{JobUUID: "job-1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ActivityWasScheduled.Int() != 1 {
		t.Errorf("Unexpected records: %+v", records)
	}
}

func TestUpdateFixedComputesEndFromDuration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_1.0/jobactivity/act-1.json" {
			t.Errorf("Expected update path, got %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		_ = json.Unmarshal(body, &got)
		if got["end_date"] != "2025-03-08 10:00:00" {
			t.Errorf("Expected computed end_date, got %v", got["end_date"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	err := client.Bookings().UpdateFixed(context.Background(), "act-1", UpdateFixedParams{
		StartDate:       "2025-03-08 09:00:00",
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestUpdateFlexibleNoFields(t *testing.T) {
	client := newTestClient("http://unused.invalid", "test-key")
	err := client.Bookings().UpdateFlexible(context.Background(), "alloc-1", UpdateFlexibleParams{})
	if !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Errorf("Expected ErrNoFieldsToUpdate, got %v", err)
	}
}

func TestDeleteBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		if r.URL.Path != "/api_1.0/joballocation/alloc-1.json" {
			t.Errorf("Expected allocation path, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	if err := client.Bookings().Delete(context.Background(), BookingFlexible, "alloc-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
