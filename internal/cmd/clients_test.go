package cmd

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientsList(t *testing.T) {
	var gotFilter string
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/company.json", func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("$filter")
		jsonHandler(t, []map[string]any{
			{"uuid": testClientUUID, "name": "Acme Plumbing", "email": "office@acme.test", "phone": "0299998888"},
		})(w, r)
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "clients", "list", "--name", "acme")
	require.NoError(t, err)
	assert.Contains(t, gotFilter, "name like '%acme%'")
	assert.Contains(t, out, "Acme Plumbing")
	assert.Contains(t, out, "1 client(s)")
}

func TestClientsGetByName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/company.json", jsonHandler(t, []map[string]any{
		{"uuid": testClientUUID, "name": "Acme Plumbing"},
	}))
	mux.HandleFunc("/api_1.0/company/"+testClientUUID+".json", jsonHandler(t, []map[string]any{
		{"uuid": testClientUUID, "name": "Acme Plumbing", "address": "1 Main St"},
	}))
	startServer(t, mux)

	out, _, err := runCLI(t, "", "clients", "get", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, testClientUUID)
	assert.Contains(t, out, "1 Main St")
}

func TestClientsGetAmbiguousName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/company.json", jsonHandler(t, []map[string]any{
		{"uuid": testClientUUID, "name": "Acme Plumbing"},
		{"uuid": testStaffUUID, "name": "Acme Electrical"},
	}))
	startServer(t, mux)

	_, errOut, err := runCLI(t, "", "clients", "get", "Acme")
	require.Error(t, err)
	assert.Contains(t, errOut, "multiple clients match")
	assert.Contains(t, errOut, testClientUUID)
	assert.Contains(t, errOut, testStaffUUID)
}

func TestClientsGetNoMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/company.json", jsonHandler(t, []map[string]any{}))
	startServer(t, mux)

	_, errOut, err := runCLI(t, "", "clients", "get", "Nobody")
	require.Error(t, err)
	assert.Contains(t, errOut, `no client found matching "Nobody"`)
}

func TestClientsGetWithContacts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/company/"+testClientUUID+".json", jsonHandler(t, []map[string]any{
		{"uuid": testClientUUID, "name": "Acme Plumbing"},
	}))
	mux.HandleFunc("/api_1.0/companycontact.json", jsonHandler(t, []map[string]any{
		{"uuid": testStaffUUID, "company_uuid": testClientUUID, "type": "JOB", "first": "Jo", "last": "Smith", "email": "jo@acme.test"},
	}))
	startServer(t, mux)

	out, _, err := runCLI(t, "", "clients", "get", testClientUUID, "--with-contacts")
	require.NoError(t, err)
	assert.Contains(t, out, "Contacts:")
	assert.Contains(t, out, "Jo Smith")
}

func TestClientsCreate(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/company.json", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("x-record-uuid", testClientUUID)
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "clients", "create",
		"--name", "Acme Plumbing", "--email", "office@acme.test", "--address", "1 Main St")
	require.NoError(t, err)
	assert.Contains(t, out, "Created client "+testClientUUID)
	assert.Equal(t, "Acme Plumbing", gotBody["name"])
	assert.Equal(t, "office@acme.test", gotBody["email"])
}

func TestClientsCreateRequiresName(t *testing.T) {
	startServer(t, http.NewServeMux())

	_, _, err := runCLI(t, "", "clients", "create")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestClientsCreateRejectsBadEmail(t *testing.T) {
	startServer(t, http.NewServeMux())

	_, _, err := runCLI(t, "", "clients", "create", "--name", "Acme", "--email", "not-an-email")
	require.Error(t, err)
}

func TestClientsUpdate(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/company/"+testClientUUID+".json", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "clients", "update", testClientUUID, "--phone", "0311112222")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated client")
	assert.Equal(t, "0311112222", gotBody["phone"])
}

func TestClientsDeleteForce(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/company/"+testClientUUID+".json", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = true
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "clients", "delete", testClientUUID, "--force")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Contains(t, out, "Deleted 1 client(s)")
}

func TestClientsContactCreatesWhenMissing(t *testing.T) {
	var created map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/companycontact.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jsonHandler(t, []map[string]any{})(w, r)
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.Header().Set("x-record-uuid", testStaffUUID)
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "clients", "contact", testClientUUID,
		"--type", "JOB", "--first", "Jo", "--last", "Smith", "--mobile", "+61400000000")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved JOB contact")
	assert.Equal(t, "Jo", created["first"])
	assert.Equal(t, testClientUUID, created["company_uuid"])
	assert.Equal(t, "JOB", created["type"])
}

func TestClientsContactUpdatesExisting(t *testing.T) {
	var updated map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/companycontact.json", jsonHandler(t, []map[string]any{
		{"uuid": testStaffUUID, "company_uuid": testClientUUID, "type": "BILLING", "email": "old@acme.test"},
	}))
	mux.HandleFunc("/api_1.0/companycontact/"+testStaffUUID+".json", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
	})
	startServer(t, mux)

	_, _, err := runCLI(t, "", "clients", "contact", testClientUUID,
		"--type", "BILLING", "--email", "accounts@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "accounts@acme.test", updated["email"])
	assert.Nil(t, updated["company_uuid"], "sparse update must not resend identity fields")
}

func TestClientsContactRejectsUnknownType(t *testing.T) {
	startServer(t, http.NewServeMux())

	_, _, err := runCLI(t, "", "clients", "contact", testClientUUID, "--type", "FAX", "--email", "x@y.test")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}
