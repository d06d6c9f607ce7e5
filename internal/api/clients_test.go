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

func TestListClients(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_1.0/company.json" {
			t.Errorf("Expected path /api_1.0/company.json, got %s", r.URL.Path)
		}
		if filter := r.URL.Query().Get("$filter"); filter != "name eq 'Acme' and active eq '1'" {
			t.Errorf("Unexpected filter: %q", filter)
		}
		_, _ = w.Write([]byte(`[{"uuid": "c-1", "name": "Acme", "active": "1"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	clauses := []Clause{{Field: "name", Operator: "eq", Value: "Acme"}}
	result, err := client.Clients().List(context.Background(), ListClientsOptions{Clauses: clauses})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].Name != "Acme" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestUpsertContactUpdatesExisting(t *testing.T) {
	var updateBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api_1.0/companycontact.json":
			want := "company_uuid eq 'c-1' and type eq 'JOB' and active eq '1'"
			if filter := r.URL.Query().Get("$filter"); filter != want {
				t.Errorf("Expected filter %q, got %q", want, filter)
			}
			_, _ = w.Write([]byte(`[{"uuid": "ct-1", "company_uuid": "c-1", "type": "JOB", "first": "Old"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/api_1.0/companycontact/ct-1.json":
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &updateBody)
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("Unexpected call: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	err := client.Clients().UpsertContact(context.Background(), "c-1", "JOB", ContactFields{
		First: "Jane",
		Email: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updateBody["first"] != "Jane" || updateBody["email"] != "jane@example.com" {
		t.Errorf("Unexpected update body: %v", updateBody)
	}
	if _, ok := updateBody["last"]; ok {
		t.Error("Expected unset fields to be omitted from a sparse update")
	}
	if _, ok := updateBody["company_uuid"]; ok {
		t.Error("Expected company_uuid absent on update")
	}
}

func TestUpsertContactCreatesWhenMissing(t *testing.T) {
	var createBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api_1.0/companycontact.json":
			_, _ = w.Write([]byte(`[]`))
		case r.Method == http.MethodPost && r.URL.Path == "/api_1.0/companycontact.json":
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &createBody)
			w.Header().Set("x-record-uuid", "ct-new")
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("Unexpected call: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	err := client.Clients().UpsertContact(context.Background(), "c-1", "BILLING", ContactFields{
		First:  "Bill",
		Mobile: "+61 400 000 000",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if createBody["company_uuid"] != "c-1" || createBody["type"] != "BILLING" {
		t.Errorf("Expected parent keys on create, got %v", createBody)
	}
	if createBody["first"] != "Bill" || createBody["mobile"] != "+61 400 000 000" {
		t.Errorf("Unexpected create body: %v", createBody)
	}
}

func TestUpsertContactUnknownType(t *testing.T) {
	client := newTestClient("http://unused.invalid", "test-key")
	err := client.Clients().UpsertContact(context.Background(), "c-1", "FRIEND", ContactFields{First: "X"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if vErr.Field != "type" {
		t.Errorf("Expected field 'type', got %q", vErr.Field)
	}
}

func TestUpsertContactNoFieldsIsNoOp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Expected no HTTP call, got %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	if err := client.Clients().UpsertContact(context.Background(), "c-1", "JOB", ContactFields{}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestUpsertContactRejectsBadEmail(t *testing.T) {
	client := newTestClient("http://unused.invalid", "test-key")
	err := client.Clients().UpsertContact(context.Background(), "c-1", "JOB", ContactFields{Email: "not-an-email"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if vErr.Field != "email" {
		t.Errorf("Expected field 'email', got %q", vErr.Field)
	}
}

func TestGetWithContacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api_1.0/company/c-1.json":
			_, _ = w.Write([]byte(`[{"uuid": "c-1", "name": "Acme"}]`))
		case "/api_1.0/companycontact.json":
			_, _ = w.Write([]byte(`[{"uuid": "ct-1", "type": "JOB"}, {"uuid": "ct-2", "type": "BILLING"}]`))
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	company, contacts, err := client.Clients().GetWithContacts(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if company.Name != "Acme" {
		t.Errorf("Expected company 'Acme', got %s", company.Name)
	}
	if len(contacts) != 2 {
		t.Errorf("Expected 2 contacts, got %d", len(contacts))
	}
}

func TestContactsRequiresCompanyUUID(t *testing.T) {
	client := newTestClient("http://unused.invalid", "test-key")
	_, err := client.Clients().Contacts(context.Background(), " ")
	if !IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
