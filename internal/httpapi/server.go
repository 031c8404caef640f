// Package httpapi exposes the catalog query surface over HTTP JSON: loading
// a chart by position, next/previous navigation, metadata reads, cursor and
// timeframe updates. The catalogs themselves are not safe for concurrent
// use, so the server serializes all access behind one mutex.
package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"chartnav/internal/catalog"
)

// Server serves one or more named catalogs (conventionally "daily" and
// "intraday").
type Server struct {
	mu       sync.Mutex
	catalogs map[string]catalog.Catalog
	log      *slog.Logger
}

// NewServer creates an empty Server.
func NewServer(log *slog.Logger) *Server {
	return &Server{
		catalogs: make(map[string]catalog.Catalog),
		log:      log,
	}
}

// Register adds a catalog under the given name.
func (s *Server) Register(name string, c catalog.Catalog) {
	s.catalogs[name] = c
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalogs", s.handleList)
	mux.HandleFunc("GET /api/catalogs/{name}/chart", s.handleChart)
	mux.HandleFunc("POST /api/catalogs/{name}/next", s.handleNext)
	mux.HandleFunc("POST /api/catalogs/{name}/previous", s.handlePrevious)
	mux.HandleFunc("GET /api/catalogs/{name}/metadata", s.handleMetadata)
	mux.HandleFunc("PUT /api/catalogs/{name}/index", s.handleSetIndex)
	mux.HandleFunc("PUT /api/catalogs/{name}/timeframe", s.handleSetTimeframe)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(s.catalogs))
	for name := range s.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string][]string{"catalogs": names})
}

// handleChart loads the chart at ?index=N, or at the cursor when the
// parameter is omitted. The cursor does not move.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Len() == 0 {
		writeError(w, http.StatusConflict, fmt.Errorf("catalog is empty"))
		return
	}

	index := c.CurrentIndex()
	if raw := r.URL.Query().Get("index"); raw != "" {
		var err error
		if index, err = parseIndex(raw, c.Len()); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	win, meta, err := c.LoadChart(index)
	if err != nil {
		s.log.Error("loading chart", "index", index, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, chartResponse(win, meta))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(c catalog.Catalog) (catalog.Window, error) {
		win, _, err := c.NextChart()
		return win, err
	})
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(c catalog.Catalog) (catalog.Window, error) {
		win, _, err := c.PreviousChart()
		return win, err
	})
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, step func(catalog.Catalog) (catalog.Window, error)) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Len() == 0 {
		writeError(w, http.StatusConflict, fmt.Errorf("catalog is empty"))
		return
	}

	win, err := step(c)
	if err != nil {
		s.log.Error("navigating", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, chartResponse(win, c.Metadata(c.CurrentIndex())))
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := parseIndex(r.URL.Query().Get("index"), c.Len())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, metaPayload(c.Metadata(index)))
}

func (s *Server) handleSetIndex(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Index < 0 || req.Index >= c.Len() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("index %d outside 0-%d", req.Index, c.Len()-1))
		return
	}
	c.SetIndex(req.Index)
	writeJSON(w, http.StatusOK, map[string]int{"index": c.CurrentIndex()})
}

func (s *Server) handleSetTimeframe(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	intraday, ok := c.(*catalog.Intraday)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("catalog does not support timeframe switching"))
		return
	}

	var req TimeframeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	if req.Timeframe == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("timeframe must not be empty"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	intraday.SetTimeframe(req.Timeframe)
	writeJSON(w, http.StatusOK, map[string]string{"timeframe": intraday.Timeframe()})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (catalog.Catalog, bool) {
	name := r.PathValue("name")
	c, ok := s.catalogs[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown catalog %q", name))
		return nil, false
	}
	return c, true
}

func parseIndex(raw string, size int) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("index %q is not an integer", raw)
	}
	if index < 0 || index >= size {
		return 0, fmt.Errorf("index %d outside 0-%d", index, size-1)
	}
	return index, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
