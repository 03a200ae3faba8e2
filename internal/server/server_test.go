package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flowdexhq/flowdex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server with no database. Only handlers that reject
// the request before touching storage can be exercised this way.
func newTestServer() *Server {
	return New(config.Config{ServerAddr: ":0", FlowdexBin: "flowdex"}, nil, nil)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRunJobRejectsInvalidBody(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("POST", "/api/admin/jobs/run", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestRunJobRejectsUnknownType(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("POST", "/api/admin/jobs/run",
		strings.NewReader(`{"job_type": "backfill"}`))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown job type")
}

func TestRunJobRejectsTemplateFetch(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("POST", "/api/admin/jobs/run",
		strings.NewReader(`{"job_type": "template_fetch"}`))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "not triggered here")
}

func TestJobHistoryRejectsUnknownTypeFilter(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("GET", "/api/admin/jobs?type=bogus", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestJobHistoryRejectsBadLimit(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("GET", "/api/admin/jobs?limit=-5", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestStopJobRequiresID(t *testing.T) {
	srv := newTestServer()
	// No id path segment matches a different (unrouted) pattern.
	req := httptest.NewRequest("POST", "/api/admin/jobs//stop", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.NotEqual(t, 200, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "uptime_seconds")
}

func TestStatsEndpointRecordsRequests(t *testing.T) {
	srv := newTestServer()
	handler := srv.Handler()

	// A prior request must show up in the stats as an http_request timing.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, 200, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/stats", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request")
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is too long", 10, "this is..."},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestSpawnerRejectsUnknownJobType(t *testing.T) {
	sp := NewSpawner("flowdex", nil)
	err := sp.Spawn("template_fetch", "run-1", jobOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not spawnable")
}
