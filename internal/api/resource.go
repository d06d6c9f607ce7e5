package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/servicem8/sm8-cli/internal/schema"
)

// endpointURL resolves resource+operation to a full URL through the
// schema registry, expanding any {param} placeholders.
func endpointURL(r Requester, resource, operation string, params map[string]string) (string, error) {
	res, err := schema.Get(resource)
	if err != nil {
		return "", err
	}
	op, err := res.Operation(operation)
	if err != nil {
		return "", err
	}
	path, err := schema.ExpandEndpoint(op, params)
	if err != nil {
		return "", &ValidationError{Reason: err.Error()}
	}
	return r.dataPath(path), nil
}

// activeOnly is appended to listings unless the caller asks for
// inactive (soft-deleted) records too.
const activeOnly = "active eq '1'"

// listRecords runs a standard getMany: user clauses first, then the
// active filter, then any service-injected predicates.
func listRecords[T any](ctx context.Context, r Requester, resource string, clauses []Clause, includeInactive bool, extra []string, limit int) ([]T, error) {
	url, err := endpointURL(r, resource, "getMany", nil)
	if err != nil {
		return nil, err
	}

	filter, err := BuildFilter(resource, clauses)
	if err != nil {
		return nil, err
	}

	var parts []string
	if filter != "" {
		parts = append(parts, filter)
	}
	if !includeInactive {
		parts = append(parts, activeOnly)
	}
	parts = append(parts, extra...)

	query := map[string]string{}
	if len(parts) > 0 {
		query["$filter"] = strings.Join(parts, " and ")
	}
	return fetchAll[T](ctx, r, url, query, limit)
}

// getRecord runs a standard get by UUID.
func getRecord[T any](ctx context.Context, r Requester, resource, uuid string) (*T, error) {
	if strings.TrimSpace(uuid) == "" {
		return nil, &ValidationError{Field: "uuid", Reason: "UUID is required"}
	}
	url, err := endpointURL(r, resource, "get", map[string]string{"uuid": uuid})
	if err != nil {
		return nil, err
	}
	return fetchOne[T](ctx, r, url)
}

// createRecord runs a standard create and returns the new record UUID.
func createRecord(ctx context.Context, r Requester, resource string, fields []FieldValue) (string, error) {
	url, err := endpointURL(r, resource, "create", nil)
	if err != nil {
		return "", err
	}
	body, err := BuildBody(resource, fields)
	if err != nil {
		return "", err
	}
	resp, err := r.request(ctx, http.MethodPost, url, nil, body, nil)
	if err != nil {
		return "", err
	}
	return createdUUID(resp)
}

// updateRecord runs a standard update. An empty built body fails with
// ErrNoFieldsToUpdate before any request is sent.
func updateRecord(ctx context.Context, r Requester, resource, uuid string, fields []FieldValue) error {
	if strings.TrimSpace(uuid) == "" {
		return &ValidationError{Field: "uuid", Reason: "UUID is required"}
	}
	body, err := BuildBody(resource, fields)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return ErrNoFieldsToUpdate
	}
	url, err := endpointURL(r, resource, "update", map[string]string{"uuid": uuid})
	if err != nil {
		return err
	}
	_, err = r.request(ctx, http.MethodPost, url, nil, body, nil)
	return err
}

// deleteRecord runs a standard delete (the API soft-deletes).
func deleteRecord(ctx context.Context, r Requester, resource, uuid string) error {
	if strings.TrimSpace(uuid) == "" {
		return &ValidationError{Field: "uuid", Reason: "UUID is required"}
	}
	url, err := endpointURL(r, resource, "delete", map[string]string{"uuid": uuid})
	if err != nil {
		return err
	}
	_, err = r.request(ctx, http.MethodDelete, url, nil, nil, nil)
	return err
}
