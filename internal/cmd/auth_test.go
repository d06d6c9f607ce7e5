package cmd

import (
	"net/http"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicem8/sm8-cli/internal/config"
	"github.com/servicem8/sm8-cli/internal/validation"
)

// allowPrivateURLs lets --base-url point at a loopback test server.
func allowPrivateURLs(t *testing.T) {
	t.Helper()
	validation.SetAllowPrivate(true)
	t.Cleanup(func() { validation.SetAllowPrivate(false) })
}

// withTestKeyring swaps the keyring for an in-memory one and clears the
// credential environment so the keyring path is actually exercised.
func withTestKeyring(t *testing.T) keyring.Keyring {
	t.Helper()
	t.Setenv("SM8_API_KEY", "")
	t.Setenv("SM8_BASE_URL", "")
	t.Setenv("SM8_PROFILE", "")
	ring := keyring.NewArrayKeyring(nil)
	restore := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
	return ring
}

func TestAuthLoginWithKeyNoVerify(t *testing.T) {
	withTestKeyring(t)

	out, _, err := runCLI(t, "", "auth", "login", "--with-key", "sm8key-abcdef123456", "--no-verify")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")

	account, err := config.LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, "sm8key-abcdef123456", account.APIKey)
}

func TestAuthLoginPromptsForKey(t *testing.T) {
	withTestKeyring(t)

	out, _, err := runCLI(t, "typed-key-9876543210\n", "auth", "login", "--no-verify")
	require.NoError(t, err)
	assert.Contains(t, out, "ServiceM8 API key:")
	assert.Contains(t, out, "Logged in")

	account, err := config.LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, "typed-key-9876543210", account.APIKey)
}

func TestAuthLoginNoInputRequiresKey(t *testing.T) {
	withTestKeyring(t)

	_, errOut, err := runCLI(t, "", "auth", "login", "--no-input", "--no-verify")
	require.Error(t, err)
	assert.Contains(t, errOut, "--with-key is required")
}

func TestAuthLoginVerifiesCredentials(t *testing.T) {
	pinged := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/taxrate.json", func(w http.ResponseWriter, r *http.Request) {
		pinged = true
		_, _ = w.Write([]byte(`[{"uuid": "tr-1", "name": "GST", "rate": "10"}]`))
	})
	srv := startServer(t, mux)
	withTestKeyring(t)
	t.Setenv("SM8_TESTING", "1")
	allowPrivateURLs(t)

	out, _, err := runCLI(t, "", "auth", "login", "--with-key", "verify-key-12345", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.True(t, pinged)
	assert.Contains(t, out, "Logged in")
}

func TestAuthLoginVerifyFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/taxrate.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	})
	srv := startServer(t, mux)
	withTestKeyring(t)
	t.Setenv("SM8_TESTING", "1")
	allowPrivateURLs(t)

	_, errOut, err := runCLI(t, "", "auth", "login", "--with-key", "bad-key-000000000", "--base-url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, errOut, "credential check failed")

	_, loadErr := config.LoadAccount()
	assert.Error(t, loadErr, "credentials must not be stored after a failed check")
}

func TestAuthLoginSaveProfileAndUse(t *testing.T) {
	withTestKeyring(t)

	out, _, err := runCLI(t, "", "auth", "login", "--with-key", "work-key-123456789", "--save-profile", "work", "--use", "--no-verify")
	require.NoError(t, err)
	assert.Contains(t, out, `Saved profile "work"`)

	current, err := config.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "work", current)

	account, err := config.LoadProfile("work")
	require.NoError(t, err)
	assert.Equal(t, "work-key-123456789", account.APIKey)
}

func TestAuthLoginKeyAlias(t *testing.T) {
	withTestKeyring(t)

	_, _, err := runCLI(t, "", "auth", "login", "--key", "alias-key-123456789", "--no-verify")
	require.NoError(t, err)

	account, err := config.LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, "alias-key-123456789", account.APIKey)
}

func TestAuthStatusFromEnv(t *testing.T) {
	t.Setenv("SM8_API_KEY", "env-key-abcdef123456")
	t.Setenv("SM8_BASE_URL", "")
	t.Setenv("SM8_PROFILE", "")

	out, _, err := runCLI(t, "", "auth", "status", "--no-verify")
	require.NoError(t, err)
	assert.Contains(t, out, "Source:")
	assert.Contains(t, out, "env")
	assert.Contains(t, out, "env-...3456")
	assert.NotContains(t, out, "env-key-abcdef123456")
}

func TestAuthStatusNotConfigured(t *testing.T) {
	withTestKeyring(t)

	out, _, err := runCLI(t, "", "auth", "status", "--no-verify")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestAuthLogout(t *testing.T) {
	withTestKeyring(t)
	require.NoError(t, config.SaveAccount(config.Account{APIKey: "stored-key-12345678"}))

	out, _, err := runCLI(t, "", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, loadErr := config.LoadAccount()
	assert.Error(t, loadErr)
}

func TestAuthLogoutProfile(t *testing.T) {
	withTestKeyring(t)
	require.NoError(t, config.SaveProfile("work", config.Account{APIKey: "work-key-123456789"}))

	out, _, err := runCLI(t, "", "auth", "logout", "--profile", "work")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed profile "work"`)

	_, loadErr := config.LoadProfile("work")
	assert.Error(t, loadErr)
}

func TestAuthProfilesList(t *testing.T) {
	withTestKeyring(t)
	require.NoError(t, config.SaveProfile("work", config.Account{APIKey: "work-key-123456789"}))
	require.NoError(t, config.SaveProfile("staging", config.Account{APIKey: "stg-key-1234567890"}))
	require.NoError(t, config.SetCurrentProfile("work"))

	out, _, err := runCLI(t, "", "auth", "profiles", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* work")
	assert.Contains(t, out, "  staging")
}

func TestAuthProfilesListEmpty(t *testing.T) {
	withTestKeyring(t)

	out, _, err := runCLI(t, "", "auth", "profiles", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No profiles stored")
}

func TestAuthProfilesUse(t *testing.T) {
	withTestKeyring(t)
	require.NoError(t, config.SaveProfile("staging", config.Account{APIKey: "stg-key-1234567890"}))

	out, _, err := runCLI(t, "", "auth", "profiles", "use", "staging")
	require.NoError(t, err)
	assert.Contains(t, out, `Switched to profile "staging"`)

	current, err := config.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "staging", current)
}

func TestAuthProfilesUseUnknown(t *testing.T) {
	withTestKeyring(t)

	_, _, err := runCLI(t, "", "auth", "profiles", "use", "nope")
	require.Error(t, err)
}
