package api

import (
	"context"
	"strings"
)

// Checkins are job activities recorded in the field rather than
// scheduled ahead of time. The resource is read-only: the mobile apps
// write these, the API only reads them back.

// ListCheckinsOptions controls a checkin listing.
type ListCheckinsOptions struct {
	JobUUID         string
	StaffUUID       string
	IncludeInactive bool
	Limit           int
}

// List returns recorded checkins, optionally scoped to a job or a staff
// member. Every listing carries the recorded-activity predicate so
// scheduled bookings never leak in.
func (s CheckinsService) List(ctx context.Context, opts ListCheckinsOptions) ([]JobActivity, error) {
	var clauses []Clause
	if opts.JobUUID != "" {
		clauses = append(clauses, Clause{Field: "job_uuid", Operator: "eq", Value: strings.TrimSpace(opts.JobUUID)})
	}
	if opts.StaffUUID != "" {
		clauses = append(clauses, Clause{Field: "staff_uuid", Operator: "eq", Value: opts.StaffUUID})
	}
	extra := []string{"activity_was_recorded eq '1'"}
	return listRecords[JobActivity](ctx, s.Client, "jobActivity", clauses, opts.IncludeInactive, extra, opts.Limit)
}

// Get returns a single checkin by UUID.
func (s CheckinsService) Get(ctx context.Context, uuid string) (*JobActivity, error) {
	return getRecord[JobActivity](ctx, s.Client, "jobActivity", uuid)
}
