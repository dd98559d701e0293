package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftlab/refdag/pkg/cache"
	"github.com/driftlab/refdag/pkg/errors"
	"github.com/driftlab/refdag/pkg/graphio"
	"github.com/driftlab/refdag/pkg/render/dot"
	"github.com/driftlab/refdag/pkg/store"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError maps domain error codes to HTTP status codes and writes the
// error envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidManifest,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidNode,
		errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errors.ErrCodeUnresolvedRefs:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeGraphNotFound,
		errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	s.writeJSON(w, status, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreate accepts a graph declaration, analyzes it, and stores the
// resulting record. Dangling references produce 422.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	doc, err := graphio.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := doc.Graph()
	if err != nil {
		s.writeError(w, err)
		return
	}
	analyzed, err := graphio.Analyze(doc.Name, g)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec := store.NewRecord(analyzed)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "store record"))
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "list records"))
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

// lookup fetches the record named by the URL, translating store misses to
// the graph-not-found code.
func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %s", id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get record %s", id)
	}
	return rec, nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			s.writeError(w, errors.New(errors.ErrCodeGraphNotFound, "graph %s", id))
			return
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "delete record %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := dot.ToDOT(rec.Document, dot.Options{Detailed: r.URL.Query().Get("detailed") == "true"})
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	src := dot.ToDOT(rec.Document, dot.Options{})

	key := cache.RenderKey(src, "svg")
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		s.serveSVG(w, data)
		return
	}

	data, err := dot.RenderSVG(r.Context(), src)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	if err := s.cache.Set(r.Context(), key, data, s.renderTTL); err != nil {
		s.logger.Warn("cache render", "err", err)
	}
	s.serveSVG(w, data)
}

func (s *Server) serveSVG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
