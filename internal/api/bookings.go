package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// BookingType selects which API object a booking lives on. Flexible
// bookings are job allocations ("sometime Tuesday, morning window");
// fixed bookings are scheduled job activities with a start and end.
type BookingType string

const (
	BookingFlexible BookingType = "flexible"
	BookingFixed    BookingType = "fixed"
)

func bookingResource(t BookingType) (string, error) {
	switch t {
	case BookingFlexible:
		return "jobAllocation", nil
	case BookingFixed:
		return "jobActivity", nil
	default:
		return "", &ValidationError{Field: "bookingType", Reason: fmt.Sprintf("unknown booking type %q", t)}
	}
}

// CreateBookingParams carries the inputs for Create. Type decides which
// of the remaining members apply.
type CreateBookingParams struct {
	Type      BookingType
	JobUUID   string
	StaffUUID string

	// Flexible bookings.
	AllocationDate       string
	AllocationWindowUUID string
	ExpiryTimestamp      string

	// Fixed bookings.
	StartDate string
	EndDate   string
}

// Create creates a booking and returns its UUID. The booking type is
// dispatched before any validation, so each kind reports only the
// requirements it actually has. Validation failures never reach the
// transport.
func (s BookingsService) Create(ctx context.Context, params CreateBookingParams) (string, error) {
	switch params.Type {
	case BookingFlexible:
		return s.createFlexible(ctx, params)
	case BookingFixed:
		return s.createFixed(ctx, params)
	default:
		return "", &ValidationError{Field: "bookingType", Reason: fmt.Sprintf("unknown booking type %q", params.Type)}
	}
}

func (s BookingsService) createFlexible(ctx context.Context, params CreateBookingParams) (string, error) {
	if strings.TrimSpace(params.JobUUID) == "" {
		return "", &ValidationError{Field: "job_uuid", Reason: "Job UUID is required to create a booking"}
	}
	if strings.TrimSpace(params.StaffUUID) == "" {
		return "", &ValidationError{Field: "staff_uuid", Reason: "Staff Member is required to create a booking"}
	}
	if params.AllocationDate == "" {
		return "", &ValidationError{Field: "allocation_date", Reason: "Allocation Date is required for flexible time bookings"}
	}

	allocationDate, err := ToWireDateTime(params.AllocationDate)
	if err != nil {
		return "", err
	}
	body := map[string]any{
		"job_uuid":        strings.TrimSpace(params.JobUUID),
		"staff_uuid":      params.StaffUUID,
		"allocation_date": allocationDate,
	}
	if params.AllocationWindowUUID != "" {
		body["allocation_window_uuid"] = params.AllocationWindowUUID
	}
	if params.ExpiryTimestamp != "" {
		expiry, err := ToWireDateTime(params.ExpiryTimestamp)
		if err != nil {
			return "", err
		}
		body["expiry_timestamp"] = expiry
	}

	return s.postBooking(ctx, "jobAllocation", body)
}

func (s BookingsService) createFixed(ctx context.Context, params CreateBookingParams) (string, error) {
	if strings.TrimSpace(params.JobUUID) == "" {
		return "", &ValidationError{Field: "job_uuid", Reason: "Job UUID is required to create a booking"}
	}
	if strings.TrimSpace(params.StaffUUID) == "" {
		return "", &ValidationError{Field: "staff_uuid", Reason: "Staff Member is required to create a booking"}
	}
	if params.StartDate == "" {
		return "", &ValidationError{Field: "start_date", Reason: "Start Time is required for fixed time bookings"}
	}
	if params.EndDate == "" {
		return "", &ValidationError{Field: "end_date", Reason: "End Time is required"}
	}

	start, err := ToWireDateTime(params.StartDate)
	if err != nil {
		return "", err
	}
	end, err := ToWireDateTime(params.EndDate)
	if err != nil {
		return "", err
	}
	body := map[string]any{
		"job_uuid":               strings.TrimSpace(params.JobUUID),
		"staff_uuid":             params.StaffUUID,
		"start_date":             start,
		"end_date":               end,
		"activity_was_scheduled": 1,
	}

	return s.postBooking(ctx, "jobActivity", body)
}

func (s BookingsService) postBooking(ctx context.Context, resource string, body map[string]any) (string, error) {
	url, err := endpointURL(s.Client, resource, "create", nil)
	if err != nil {
		return "", err
	}
	resp, err := s.request(ctx, http.MethodPost, url, nil, body, nil)
	if err != nil {
		return "", err
	}
	return createdUUID(resp)
}

// EndFromDuration computes a fixed booking's end time from its start and
// a duration in minutes, in wire format.
func EndFromDuration(startDate string, durationMinutes int) (string, error) {
	if durationMinutes < 1 {
		return "", &ValidationError{Field: "duration", Reason: "Duration must be at least 1 minute"}
	}
	start, err := ToWireDateTime(startDate)
	if err != nil {
		return "", err
	}
	t, err := time.Parse(WireDateTimeLayout, start)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateTime, startDate)
	}
	return t.Add(time.Duration(durationMinutes) * time.Minute).Format(WireDateTimeLayout), nil
}

// GetFlexible returns a flexible booking by UUID.
func (s BookingsService) GetFlexible(ctx context.Context, uuid string) (*JobAllocation, error) {
	return getRecord[JobAllocation](ctx, s.Client, "jobAllocation", uuid)
}

// GetFixed returns a fixed booking by UUID.
func (s BookingsService) GetFixed(ctx context.Context, uuid string) (*JobActivity, error) {
	return getRecord[JobActivity](ctx, s.Client, "jobActivity", uuid)
}

// ListBookingsOptions controls a booking listing.
type ListBookingsOptions struct {
	JobUUID         string
	IncludeInactive bool
	Limit           int
}

// ListFlexible returns flexible bookings, optionally scoped to one job.
func (s BookingsService) ListFlexible(ctx context.Context, opts ListBookingsOptions) ([]JobAllocation, error) {
	var clauses []Clause
	if opts.JobUUID != "" {
		clauses = append(clauses, Clause{Field: "job_uuid", Operator: "eq", Value: strings.TrimSpace(opts.JobUUID)})
	}
	return listRecords[JobAllocation](ctx, s.Client, "jobAllocation", clauses, opts.IncludeInactive, nil, opts.Limit)
}

// ListFixed returns fixed bookings, optionally scoped to one job. Only
// scheduled activities qualify; recorded checkins are excluded.
func (s BookingsService) ListFixed(ctx context.Context, opts ListBookingsOptions) ([]JobActivity, error) {
	var clauses []Clause
	if opts.JobUUID != "" {
		clauses = append(clauses, Clause{Field: "job_uuid", Operator: "eq", Value: strings.TrimSpace(opts.JobUUID)})
	}
	extra := []string{"activity_was_scheduled eq '1'"}
	return listRecords[JobActivity](ctx, s.Client, "jobActivity", clauses, opts.IncludeInactive, extra, opts.Limit)
}

// UpdateFlexibleParams carries the updatable members of a flexible
// booking. Empty members are left untouched.
type UpdateFlexibleParams struct {
	AllocationDate       string
	AllocationWindowUUID string
	ExpiryTimestamp      string
	StaffUUID            string
}

// UpdateFlexible applies changes to a flexible booking.
func (s BookingsService) UpdateFlexible(ctx context.Context, uuid string, params UpdateFlexibleParams) error {
	var fields []FieldValue
	if params.AllocationDate != "" {
		fields = append(fields, FieldValue{Name: "allocation_date", Value: params.AllocationDate})
	}
	if params.ExpiryTimestamp != "" {
		fields = append(fields, FieldValue{Name: "expiry_timestamp", Value: params.ExpiryTimestamp})
	}
	if params.AllocationWindowUUID != "" {
		fields = append(fields, FieldValue{Name: "allocation_window_uuid", Value: params.AllocationWindowUUID})
	}
	if params.StaffUUID != "" {
		fields = append(fields, FieldValue{Name: "staff_uuid", Value: params.StaffUUID})
	}
	return updateRecord(ctx, s.Client, "jobAllocation", uuid, fields)
}

// UpdateFixedParams carries the updatable members of a fixed booking.
// When DurationMinutes is set alongside StartDate the end time is
// recomputed client-side.
type UpdateFixedParams struct {
	StartDate       string
	EndDate         string
	DurationMinutes int
	StaffUUID       string
}

// UpdateFixed applies changes to a fixed booking.
func (s BookingsService) UpdateFixed(ctx context.Context, uuid string, params UpdateFixedParams) error {
	var fields []FieldValue
	if params.StartDate != "" {
		fields = append(fields, FieldValue{Name: "start_date", Value: params.StartDate})
		if params.DurationMinutes > 0 && params.EndDate == "" {
			end, err := EndFromDuration(params.StartDate, params.DurationMinutes)
			if err != nil {
				return err
			}
			fields = append(fields, FieldValue{Name: "end_date", Value: end})
		}
	}
	if params.EndDate != "" {
		fields = append(fields, FieldValue{Name: "end_date", Value: params.EndDate})
	}
	if params.StaffUUID != "" {
		fields = append(fields, FieldValue{Name: "staff_uuid", Value: params.StaffUUID})
	}
	return updateRecord(ctx, s.Client, "jobActivity", uuid, fields)
}

// Delete soft-deletes a booking of the given type.
func (s BookingsService) Delete(ctx context.Context, bookingType BookingType, uuid string) error {
	resource, err := bookingResource(bookingType)
	if err != nil {
		return err
	}
	return deleteRecord(ctx, s.Client, resource, uuid)
}
