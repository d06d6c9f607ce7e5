package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/servicem8/sm8-cli/internal/validation"
)

// Contact types recognized by the upsert operation.
var ContactTypes = []string{"JOB", "BILLING", "Property Manager", "Property Owner", "Tenant"}

// ListClientsOptions controls a client listing.
type ListClientsOptions struct {
	Clauses         []Clause
	IncludeInactive bool
	Limit           int
}

// List returns clients matching the given clauses.
func (s ClientsService) List(ctx context.Context, opts ListClientsOptions) ([]Company, error) {
	return listRecords[Company](ctx, s.Client, "client", opts.Clauses, opts.IncludeInactive, nil, opts.Limit)
}

// Get returns a single client by UUID.
func (s ClientsService) Get(ctx context.Context, uuid string) (*Company, error) {
	return getRecord[Company](ctx, s.Client, "client", uuid)
}

// GetWithContacts returns a client along with its active contacts.
func (s ClientsService) GetWithContacts(ctx context.Context, uuid string) (*Company, []CompanyContact, error) {
	company, err := s.Get(ctx, uuid)
	if err != nil {
		return nil, nil, err
	}
	contacts, err := s.Contacts(ctx, uuid)
	if err != nil {
		return nil, nil, err
	}
	return company, contacts, nil
}

// Contacts returns the active contacts of a client.
func (s ClientsService) Contacts(ctx context.Context, companyUUID string) ([]CompanyContact, error) {
	if strings.TrimSpace(companyUUID) == "" {
		return nil, &ValidationError{Field: "uuid", Reason: "Company UUID is required"}
	}
	clauses := []Clause{
		{Field: "company_uuid", Operator: "eq", Value: strings.TrimSpace(companyUUID)},
	}
	return listRecords[CompanyContact](ctx, s.Client, "companyContact", clauses, false, nil, 0)
}

// Create creates a client and returns its UUID.
func (s ClientsService) Create(ctx context.Context, fields []FieldValue) (string, error) {
	return createRecord(ctx, s.Client, "client", fields)
}

// Update applies field changes to a client.
func (s ClientsService) Update(ctx context.Context, uuid string, fields []FieldValue) error {
	return updateRecord(ctx, s.Client, "client", uuid, fields)
}

// Delete soft-deletes a client.
func (s ClientsService) Delete(ctx context.Context, uuid string) error {
	return deleteRecord(ctx, s.Client, "client", uuid)
}

// ContactFields is the sparse field set accepted by UpsertContact.
// Empty members are omitted, so an update touches only what is set.
type ContactFields struct {
	First  string
	Last   string
	Email  string
	Mobile string
	Phone  string
}

func (f ContactFields) body() map[string]any {
	body := map[string]any{}
	set := func(key, value string) {
		if value != "" {
			body[key] = value
		}
	}
	set("first", f.First)
	set("last", f.Last)
	set("email", f.Email)
	set("mobile", f.Mobile)
	set("phone", f.Phone)
	return body
}

func (f ContactFields) validate() error {
	checks := []struct {
		field string
		err   error
	}{
		{"first", validation.ValidateName(f.First)},
		{"last", validation.ValidateName(f.Last)},
		{"email", validation.ValidateEmailFormat(f.Email)},
		{"mobile", validation.ValidatePhoneFormat(f.Mobile)},
		{"phone", validation.ValidatePhoneFormat(f.Phone)},
	}
	for _, c := range checks {
		if c.err != nil {
			return &ValidationError{Field: c.field, Reason: c.err.Error()}
		}
	}
	return nil
}

// UpsertContact creates or updates the client contact of the given type.
// An existing active contact of that type is updated sparsely; otherwise
// a new contact is created. Providing no fields is a no-op.
//
// The lookup and the write are two separate API calls, so a concurrent
// writer can slip between them and leave two contacts of the same type.
// The API offers no conditional write to close that window.
func (s ClientsService) UpsertContact(ctx context.Context, companyUUID, contactType string, fields ContactFields) error {
	companyUUID = strings.TrimSpace(companyUUID)
	if companyUUID == "" {
		return &ValidationError{Field: "uuid", Reason: "Company UUID is required"}
	}
	if !validContactType(contactType) {
		return &ValidationError{
			Field:  "type",
			Reason: fmt.Sprintf("unknown contact type %q (use one of %s)", contactType, strings.Join(ContactTypes, ", ")),
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
		{Field: "company_uuid", Operator: "eq", Value: companyUUID},
		{Field: "type", Operator: "eq", Value: contactType},
	}
	existing, err := listRecords[CompanyContact](ctx, s.Client, "companyContact", clauses, false, nil, 1)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		url, err := endpointURL(s.Client, "companyContact", "update", map[string]string{"uuid": existing[0].UUID})
		if err != nil {
			return err
		}
		_, err = s.request(ctx, http.MethodPost, url, nil, body, nil)
		return err
	}

	body["company_uuid"] = companyUUID
	body["type"] = contactType
	url, err := endpointURL(s.Client, "companyContact", "create", nil)
	if err != nil {
		return err
	}
	_, err = s.request(ctx, http.MethodPost, url, nil, body, nil)
	return err
}

func validContactType(t string) bool {
	for _, known := range ContactTypes {
		if t == known {
			return true
		}
	}
	return false
}
