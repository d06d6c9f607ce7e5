package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Contact types recognized on a job. Job contacts carry per-job site and
// billing details, distinct from the client's own contact records.
var JobContactTypes = []string{"Job", "Billing", "Property Manager"}

// ListJobsOptions controls a job listing.
type ListJobsOptions struct {
	Clauses         []Clause
	IncludeInactive bool
	Limit           int
}

// List returns jobs matching the given clauses.
func (s JobsService) List(ctx context.Context, opts ListJobsOptions) ([]Job, error) {
	return listRecords[Job](ctx, s.Client, "job", opts.Clauses, opts.IncludeInactive, nil, opts.Limit)
}

// Get returns a single job by UUID.
func (s JobsService) Get(ctx context.Context, uuid string) (*Job, error) {
	return getRecord[Job](ctx, s.Client, "job", uuid)
}

// Create creates a job and returns its UUID.
func (s JobsService) Create(ctx context.Context, fields []FieldValue) (string, error) {
	return createRecord(ctx, s.Client, "job", fields)
}

// Update applies field changes to a job.
func (s JobsService) Update(ctx context.Context, uuid string, fields []FieldValue) error {
	return updateRecord(ctx, s.Client, "job", uuid, fields)
}

// Delete soft-deletes a job.
func (s JobsService) Delete(ctx context.Context, uuid string) error {
	return deleteRecord(ctx, s.Client, "job", uuid)
}

// CreateFromTemplate creates a job seeded from an existing template job.
// The template's description, address and category carry over unless an
// override provides them. company_name is dropped when company_uuid is
// also present, matching the API's create contract.
func (s JobsService) CreateFromTemplate(ctx context.Context, templateUUID string, overrides []FieldValue) (string, error) {
	template, err := s.Get(ctx, templateUUID)
	if err != nil {
		return "", err
	}

	fields := []FieldValue{
		{Name: "job_description", Value: template.JobDescription},
		{Name: "job_address", Value: template.JobAddress},
	}
	if template.CategoryUUID != "" {
		fields = append(fields, FieldValue{Name: "category_uuid", Value: template.CategoryUUID})
	}
	fields = append(fields, overrides...)

	body, err := BuildBody("job", fields)
	if err != nil {
		return "", err
	}
	if body["company_name"] != nil && body["company_uuid"] != nil {
		delete(body, "company_name")
	}

	url, err := endpointURL(s.Client, "job", "create", nil)
	if err != nil {
		return "", err
	}
	resp, err := s.request(ctx, http.MethodPost, url, nil, body, nil)
	if err != nil {
		return "", err
	}
	return createdUUID(resp)
}

// AddNote attaches a note to a job and returns the note UUID.
func (s JobsService) AddNote(ctx context.Context, jobUUID, note string) (string, error) {
	if strings.TrimSpace(jobUUID) == "" {
		return "", &ValidationError{Field: "uuid", Reason: "Job UUID is required"}
	}
	if strings.TrimSpace(note) == "" {
		return "", &ValidationError{Field: "note", Reason: "Note text is required"}
	}

	url, err := endpointURL(s.Client, "note", "create", nil)
	if err != nil {
		return "", err
	}
	body := map[string]any{
		"note":                strings.TrimSpace(note),
		"related_object":      "job",
		"related_object_uuid": strings.TrimSpace(jobUUID),
		"active":              1,
	}
	resp, err := s.request(ctx, http.MethodPost, url, nil, body, nil)
	if err != nil {
		return "", err
	}
	return createdUUID(resp)
}

// ListNotes returns the notes attached to a job.
func (s JobsService) ListNotes(ctx context.Context, jobUUID string) ([]Note, error) {
	if strings.TrimSpace(jobUUID) == "" {
		return nil, &ValidationError{Field: "uuid", Reason: "Job UUID is required"}
	}
	clauses := []Clause{
		{Field: "related_object", Operator: "eq", Value: "job"},
		{Field: "related_object_uuid", Operator: "eq", Value: strings.TrimSpace(jobUUID)},
	}
	return listRecords[Note](ctx, s.Client, "note", clauses, false, nil, 0)
}

// Contacts returns the active contacts pinned to a job.
func (s JobsService) Contacts(ctx context.Context, jobUUID string) ([]JobContact, error) {
	if strings.TrimSpace(jobUUID) == "" {
		return nil, &ValidationError{Field: "uuid", Reason: "Job UUID is required"}
	}
	clauses := []Clause{
		{Field: "job_uuid", Operator: "eq", Value: strings.TrimSpace(jobUUID)},
	}
	return listRecords[JobContact](ctx, s.Client, "jobContact", clauses, false, nil, 0)
}

// UpsertContact creates or updates the job contact of the given type.
// An existing active contact of that type is updated sparsely; otherwise
// a new contact is created. Providing no fields is a no-op.
//
// The lookup and the write are two separate API calls, so a concurrent
// writer can slip between them and leave two contacts of the same type.
// The API offers no conditional write to close that window.
func (s JobsService) UpsertContact(ctx context.Context, jobUUID, contactType string, fields ContactFields) error {
	jobUUID = strings.TrimSpace(jobUUID)
	if jobUUID == "" {
		return &ValidationError{Field: "uuid", Reason: "Job UUID is required"}
	}
	if !validJobContactType(contactType) {
		return &ValidationError{
			Field:  "type",
			Reason: fmt.Sprintf("unknown contact type %q (use one of %s)", contactType, strings.Join(JobContactTypes, ", ")),
		}
	}

	if err := fields.validate(); err != nil {
		return err
	}
	body := fields.body()
	if len(body) == 0 {
		return nil
	}

	clauses := []Clause{
		{Field: "job_uuid", Operator: "eq", Value: jobUUID},
		{Field: "type", Operator: "eq", Value: contactType},
	}
	existing, err := listRecords[JobContact](ctx, s.Client, "jobContact", clauses, false, nil, 1)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		url, err := endpointURL(s.Client, "jobContact", "update", map[string]string{"uuid": existing[0].UUID})
		if err != nil {
			return err
		}
		_, err = s.request(ctx, http.MethodPost, url, nil, body, nil)
		return err
	}

	body["job_uuid"] = jobUUID
	body["type"] = contactType
	url, err := endpointURL(s.Client, "jobContact", "create", nil)
	if err != nil {
		return err
	}
	_, err = s.request(ctx, http.MethodPost, url, nil, body, nil)
	return err
}

func validJobContactType(t string) bool {
	for _, known := range JobContactTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SendToQueue places a job on a queue, optionally with an expiry.
func (s JobsService) SendToQueue(ctx context.Context, jobUUID, queueUUID, expiryDate string) error {
	if strings.TrimSpace(queueUUID) == "" {
		return &ValidationError{Field: "queue_uuid", Reason: "Queue UUID is required"}
	}
	fields := []FieldValue{{Name: "queue_uuid", Value: strings.TrimSpace(queueUUID)}}
	if expiryDate != "" {
		fields = append(fields, FieldValue{Name: "queue_expiry_date", Value: expiryDate})
	}
	return updateRecord(ctx, s.Client, "job", jobUUID, fields)
}
