package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/parsets/pkg/cache"
	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/observability"
	"github.com/matzehuels/parsets/pkg/pipeline"
)

const layoutBody = `{
  "rows": [
    {"Class": "First", "Sex": "F"},
    {"Class": "First", "Sex": "M"},
    {"Class": "Crew", "Sex": "M"},
    {"Class": "Crew", "Sex": "M"}
  ],
  "options": {"dimensions": ["Class", "Sex"]}
}`

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	return New(Config{Runner: pipeline.NewRunner(c, nil, nil)})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Status != "ok" {
		t.Errorf("body = %s", rec.Body)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response should carry a request ID")
	}
}

func TestRequestIDIsKept(t *testing.T) {
	const id = "0b6f8f5e-5d4c-4b8e-9b4a-6f1f6c1d2e3f"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	newTestServer(t, nil).ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	newTestServer(t, nil).ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not a uuid" || got == "" {
		t.Errorf("malformed request ID should be replaced, got %q", got)
	}
}

func TestLayout(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/v1/layout", layoutBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var doc struct {
		BuildID string `json:"build_id"`
		Total   int    `json:"total"`
		Axes    []struct {
			Dimension string `json:"dimension"`
			Segments  []struct {
				Label string `json:"label"`
				Count int    `json:"count"`
			} `json:"segments"`
		} `json:"axes"`
		Scene *struct {
			Ribbons []json.RawMessage `json:"ribbons"`
		} `json:"scene"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Total != 4 || len(doc.Axes) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Axes[0].Dimension != "Class" || doc.Axes[0].Segments[0].Label != "First" || doc.Axes[0].Segments[1].Count != 2 {
		t.Errorf("Class axis = %+v", doc.Axes[0])
	}
	if doc.Scene == nil || len(doc.Scene.Ribbons) != 3 {
		t.Errorf("scene should hold 3 ribbons")
	}
	if doc.BuildID != rec.Header().Get(RequestIDHeader) {
		t.Errorf("build ID %q should match request ID", doc.BuildID)
	}
}

func TestRender(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, fc)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"dot", "text/vnd.graphviz", "digraph"},
		{"json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/v1/render?format="+tt.format, layoutBody)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte(tt.prefix)) {
				t.Errorf("body should start with %q", tt.prefix)
			}
			if rec.Header().Get("X-Cache") != "miss" {
				t.Errorf("first render X-Cache = %q", rec.Header().Get("X-Cache"))
			}

			again := do(t, srv, http.MethodPost, "/v1/render?format="+tt.format, layoutBody)
			if again.Header().Get("X-Cache") != "hit" {
				t.Errorf("second render X-Cache = %q", again.Header().Get("X-Cache"))
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   perrors.Code
	}{
		{"empty body", http.MethodPost, "/v1/layout", "", http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"bad json", http.MethodPost, "/v1/layout", "{", http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/v1/layout", `{"rows": [], "colour": 1}`, http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"no dimensions", http.MethodPost, "/v1/layout", `{"rows": [], "options": {}}`, http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"bad sort", http.MethodPost, "/v1/layout",
			`{"rows": [], "options": {"dimensions": ["A"], "axes": {"A": {"sort": "random"}}}}`,
			http.StatusBadRequest, perrors.ErrCodeInvalidConfig},
		{"bad format", http.MethodPost, "/v1/render?format=gif", layoutBody, http.StatusBadRequest, perrors.ErrCodeInvalidFormat},
		{"unknown route", http.MethodGet, "/v2/nothing", "", http.StatusNotFound, perrors.ErrCodeNotFound},
	}

	srv := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.code)
			}
			if body.RequestID == "" {
				t.Error("error body should carry the request ID")
			}
		})
	}
}

func TestRowLimit(t *testing.T) {
	srv := New(Config{MaxRows: 2})
	rec := do(t, srv, http.MethodPost, "/v1/layout", layoutBody)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code perrors.Code
		want int
	}{
		{perrors.ErrCodeInvalidConfig, http.StatusBadRequest},
		{perrors.ErrCodeInvalidDataset, http.StatusBadRequest},
		{perrors.ErrCodeFileNotFound, http.StatusNotFound},
		{perrors.ErrCodeUnsupported, http.StatusNotImplemented},
		{perrors.ErrCodeNetwork, http.StatusBadGateway},
		{perrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{perrors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(perrors.New(tt.code, "x")); got != tt.want {
			t.Errorf("StatusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

type countingHTTPHooks struct {
	observability.NoopHTTPHooks
	responses []int
}

func (c *countingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	c.responses = append(c.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &countingHTTPHooks{}
	observability.SetHTTPHooks(hooks)

	srv := newTestServer(t, nil)
	do(t, srv, http.MethodGet, "/healthz", "")
	do(t, srv, http.MethodPost, "/v1/layout", "{")

	if len(hooks.responses) != 2 || hooks.responses[0] != 200 || hooks.responses[1] != 400 {
		t.Errorf("responses = %v, want [200 400]", hooks.responses)
	}
}

func TestHealthReportsEvents(t *testing.T) {
	defer observability.Reset()
	events := observability.NewLogHooks(nil)
	observability.UseLogHooks(events)

	s := New(Config{Runner: pipeline.NewRunner(nil, nil, nil), Events: events})
	do(t, s, http.MethodPost, "/v1/layout", layoutBody)
	rec := do(t, s, http.MethodGet, "/healthz", "")

	var body struct {
		Events observability.Counts `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Events.Builds != 1 {
		t.Errorf("builds = %d, want 1", body.Events.Builds)
	}
	if body.Events.Requests != 2 {
		t.Errorf("requests = %d, want 2", body.Events.Requests)
	}
}
