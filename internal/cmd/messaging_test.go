package cmd

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailSend(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/platform_service_email", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		jsonHandler(t, map[string]any{"sent": true})(w, r)
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "email",
		"--to", "jo@example.test", "--subject", "Your quote",
		"--text", "Quote attached", "--job", testJobUUID)
	require.NoError(t, err)
	assert.Contains(t, out, "Email sent to jo@example.test")
	assert.Equal(t, "jo@example.test", gotBody["to"])
	assert.Equal(t, "Your quote", gotBody["subject"])
	assert.Equal(t, "Quote attached", gotBody["textBody"])
	assert.Equal(t, testJobUUID, gotBody["regardingJobUUID"])
}

func TestEmailImpersonationHeader(t *testing.T) {
	var gotImpersonate string
	mux := http.NewServeMux()
	mux.HandleFunc("/platform_service_email", func(w http.ResponseWriter, r *http.Request) {
		gotImpersonate = r.Header.Get("x-impersonate-uuid")
		jsonHandler(t, map[string]any{"sent": true})(w, r)
	})
	startServer(t, mux)

	_, _, err := runCLI(t, "", "email",
		"--to", "jo@example.test", "--subject", "Hi", "--text", "body",
		"--as", testStaffUUID)
	require.NoError(t, err)
	assert.Equal(t, testStaffUUID, gotImpersonate)
}

func TestEmailRequiresBody(t *testing.T) {
	startServer(t, http.NewServeMux())

	_, errOut, err := runCLI(t, "", "email", "--to", "jo@example.test", "--subject", "Hi")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, errOut, "htmlBody or textBody")
}

func TestEmailRejectsBadRecipient(t *testing.T) {
	startServer(t, http.NewServeMux())

	_, _, err := runCLI(t, "", "email", "--to", "not-an-email", "--subject", "Hi", "--text", "body")
	require.Error(t, err)
}

func TestEmailRejectsBadCC(t *testing.T) {
	startServer(t, http.NewServeMux())

	_, _, err := runCLI(t, "", "email",
		"--to", "jo@example.test", "--subject", "Hi", "--text", "body",
		"--cc", "sam@example.test, not-an-email")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestSMSSend(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/platform_service_sms", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		jsonHandler(t, map[string]any{"sent": true})(w, r)
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "sms",
		"--to", "+61400000000", "-m", "Running 20 minutes late", "--job", testJobUUID)
	require.NoError(t, err)
	assert.Contains(t, out, "SMS sent to +61400000000")
	assert.Equal(t, "+61400000000", gotBody["to"])
	assert.Equal(t, "Running 20 minutes late", gotBody["message"])
	assert.Equal(t, testJobUUID, gotBody["regardingJobUUID"])
}

func TestSMSRejectsBadNumber(t *testing.T) {
	startServer(t, http.NewServeMux())

	_, _, err := runCLI(t, "", "sms", "--to", "not-a-number", "-m", "hi")
	require.Error(t, err)
}

func TestSMSDryRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s during dry run", r.Method, r.URL.Path)
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "sms", "--to", "+61400000000", "-m", "hello", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[DRY-RUN]")
	assert.Contains(t, out, "+61400000000")
}
