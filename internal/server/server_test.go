package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/driftlab/refdag/pkg/cache"
	"github.com/driftlab/refdag/pkg/render/dot"
	"github.com/driftlab/refdag/pkg/store"
)

func newTestServer(t *testing.T) (*Server, *store.Memory, cache.Cache) {
	t.Helper()
	st := store.NewMemory()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	return New(Config{Addr: ":0"}, st, c, logger), st, c
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const acyclicBody = `{
  "name": "svc",
  "nodes": [{"id": "api"}, {"id": "db"}],
  "edges": [{"from": "api", "to": "db"}]
}`

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCreateAcyclic(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodPost, "/graphs", acyclicBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var got store.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID == "" {
		t.Error("record ID not assigned")
	}
	if !got.Document.Acyclic {
		t.Error("Acyclic = false, want true")
	}
	if len(got.Document.Order) != 2 || got.Document.Order[0] != "api" {
		t.Errorf("Order = %v, want [api db]", got.Document.Order)
	}
}

func TestCreateCycle(t *testing.T) {
	s, _, _ := newTestServer(t)
	body := `{
	  "nodes": [{"id": "a"}, {"id": "b"}],
	  "edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}]
	}`
	rec := doJSON(t, s.Router(), http.MethodPost, "/graphs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var got store.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Document.Acyclic {
		t.Error("Acyclic = true, want false")
	}
	if len(got.Document.Cycle) != 3 {
		t.Errorf("Cycle = %v, want closed walk of length 3", got.Document.Cycle)
	}
}

func TestCreateUnresolved(t *testing.T) {
	s, _, _ := newTestServer(t)
	body := `{
	  "nodes": [{"id": "a"}],
	  "edges": [{"from": "a", "to": "ghost"}]
	}`
	rec := doJSON(t, s.Router(), http.MethodPost, "/graphs", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body)
	}
	var body2 errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body2); err != nil {
		t.Fatal(err)
	}
	if body2.Error.Code != "UNRESOLVED_REFERENCES" {
		t.Errorf("error code = %q, want UNRESOLVED_REFERENCES", body2.Error.Code)
	}
}

func TestCreateMalformed(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodPost, "/graphs", `{"nodes": [`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestGetListDelete(t *testing.T) {
	s, _, _ := newTestServer(t)
	r := s.Router()

	created := doJSON(t, r, http.MethodPost, "/graphs", acyclicBody)
	var rec store.Record
	if err := json.Unmarshal(created.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}

	// Get
	got := doJSON(t, r, http.MethodGet, "/graphs/"+rec.ID, "")
	if got.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", got.Code)
	}

	// List
	list := doJSON(t, r, http.MethodGet, "/graphs", "")
	if list.Code != http.StatusOK {
		t.Fatalf("LIST status = %d, want 200", list.Code)
	}
	var recs []*store.Record
	if err := json.Unmarshal(list.Body.Bytes(), &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Errorf("len(list) = %d, want 1", len(recs))
	}

	// Delete
	del := doJSON(t, r, http.MethodDelete, "/graphs/"+rec.ID, "")
	if del.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", del.Code)
	}
	gone := doJSON(t, r, http.MethodGet, "/graphs/"+rec.ID, "")
	if gone.Code != http.StatusNotFound {
		t.Fatalf("GET deleted status = %d, want 404", gone.Code)
	}
	delGone := doJSON(t, r, http.MethodDelete, "/graphs/"+rec.ID, "")
	if delGone.Code != http.StatusNotFound {
		t.Fatalf("DELETE deleted status = %d, want 404", delGone.Code)
	}
}

func TestGetUnknown(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/graphs/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDOTEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)
	r := s.Router()

	created := doJSON(t, r, http.MethodPost, "/graphs", acyclicBody)
	var rec store.Record
	if err := json.Unmarshal(created.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}

	res := doJSON(t, r, http.MethodGet, "/graphs/"+rec.ID+"/dot", "")
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := res.Body.String()
	if !strings.Contains(body, `"api" -> "db";`) {
		t.Errorf("DOT body missing edge:\n%s", body)
	}
}

func TestSVGServedFromCache(t *testing.T) {
	s, _, c := newTestServer(t)
	r := s.Router()

	created := doJSON(t, r, http.MethodPost, "/graphs", acyclicBody)
	var rec store.Record
	if err := json.Unmarshal(created.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}

	// Pre-populate the cache under the key the handler derives, so the
	// handler serves without invoking the render engine.
	src := dot.ToDOT(rec.Document, dot.Options{})
	key := cache.RenderKey(src, "svg")
	if err := c.Set(context.Background(), key, []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}

	res := doJSON(t, r, http.MethodGet, "/graphs/"+rec.ID+"/svg", "")
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", res.Code, res.Body)
	}
	if ct := res.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if res.Body.String() != "<svg>cached</svg>" {
		t.Errorf("body = %q, want cached artifact", res.Body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _, _ := newTestServer(t)
	r := s.Router()

	res := doJSON(t, r, http.MethodGet, "/healthz", "")
	if res.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "caller-supplied" {
		t.Errorf("X-Request-ID = %q, want caller-supplied", got)
	}
}
