package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchGlobal(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/search.json", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		jsonHandler(t, []map[string]any{
			{"object_type": "job", "uuid": testJobUUID, "label": "Job 101", "snippet": "burst pipe under sink"},
			{"object_type": "company", "uuid": testClientUUID, "label": "Acme Plumbing", "snippet": "office@acme.test"},
		})(w, r)
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "search", "burst", "pipe")
	require.NoError(t, err)
	assert.Equal(t, "burst pipe", gotQuery)
	assert.Contains(t, out, "Job 101")
	assert.Contains(t, out, "Acme Plumbing")
	assert.Contains(t, out, "2 result(s)")
}

func TestSearchScopedType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/search/job.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		jsonHandler(t, []map[string]any{
			{"object_type": "job", "uuid": testJobUUID, "label": "Job 101"},
		})(w, r)
	})
	startServer(t, mux)

	out, _, err := runCLI(t, "", "search", "pipe", "--type", "job", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Job 101")
}

func TestSearchResultsEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_1.0/search.json", jsonHandler(t, map[string]any{
		"results": []map[string]any{
			{"object_type": "job", "uuid": testJobUUID, "label": "Job 101"},
		},
	}))
	startServer(t, mux)

	out, _, err := runCLI(t, "", "search", "pipe")
	require.NoError(t, err)
	assert.Contains(t, out, "Job 101")
	assert.Contains(t, out, "1 result(s)")
}

func TestSearchRequiresQuery(t *testing.T) {
	startServer(t, http.NewServeMux())

	_, _, err := runCLI(t, "", "search")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}
