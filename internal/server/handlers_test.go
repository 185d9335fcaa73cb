package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sharewatch/sharewatch/internal/config"
	"github.com/sharewatch/sharewatch/internal/logger"
	"github.com/sharewatch/sharewatch/internal/privacy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()

	cfg := config.GetDefaults()
	cfg.RateLimit.Enabled = false
	cfg.Templates.Store.Enabled = false
	for _, m := range mutate {
		m(cfg)
	}

	s, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleScan(t *testing.T) {
	s := newTestServer(t)

	t.Run("WithMatches", func(t *testing.T) {
		rec := doJSON(t, s, "POST", "/v1/scan", scanRequest{Text: "SSN: 123-45-6789"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp scanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "SSN", resp.Matches[0].Type)
		assert.Equal(t, "123-45-6789", resp.Matches[0].Value)
		assert.Equal(t, privacy.SeverityDanger, resp.Matches[0].Severity)
	})

	t.Run("NoMatches", func(t *testing.T) {
		rec := doJSON(t, s, "POST", "/v1/scan", scanRequest{Text: "nothing sensitive"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp scanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
		assert.NotNil(t, resp.Matches)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/scan", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHighlight(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/v1/highlight", scanRequest{Text: "mail a@b.com <now>"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp highlightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Contains(t, resp.HTML, `<mark class="sw-caution" data-entity="Email">a@b.com</mark>`)
	assert.Contains(t, resp.HTML, "&lt;now&gt;")
}

func TestHandleTemplateRender(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/v1/templates/render", renderRequest{
		Template:  "Hello {{NAME}}, SUDS={{SUDS}}, missing {{OTHER_VAR}}",
		Variables: map[string]string{"NAME": "Ada"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp renderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Output, "Hello Ada, SUDS=N/A"))
	assert.Equal(t, []string{"OTHER_VAR"}, resp.Unresolved)
}

func TestHandleTemplateVariables(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/v1/templates/variables", variablesRequest{
		Template: "{{DATE}} {{CUSTOM_VAR}} {{DATE}}",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp variablesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"DATE", "CUSTOM_VAR"}, resp.Variables)
}

func TestStoreRoutesAbsentWhenDisabled(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/v1/templates", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndInfo(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = doJSON(t, s, "GET", "/info", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "sharewatch", info["name"])
	assert.Len(t, info["enabled_rules"], 8)
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit = config.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 1,
			Burst:             2,
		}
	})

	var last int
	for i := 0; i < 3; i++ {
		rec := doJSON(t, s, "POST", "/v1/scan", scanRequest{Text: "x"})
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestSummarizeMatches(t *testing.T) {
	matches := []privacy.Match{
		{Type: "Email", Severity: privacy.SeverityCaution},
		{Type: "SSN", Severity: privacy.SeverityDanger},
		{Type: "Email", Severity: privacy.SeverityCaution},
	}

	hits := summarizeMatches(matches)
	require.Len(t, hits, 2)
	assert.Equal(t, "Email", hits[0].Type)
	assert.Equal(t, 2, hits[0].Count)
	assert.Equal(t, "SSN", hits[1].Type)
	assert.Equal(t, 1, hits[1].Count)
}
