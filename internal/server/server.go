// Package server exposes the layout engine over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/piwi3910/SlabTile/internal/engine"
	"github.com/piwi3910/SlabTile/internal/logging"
	"github.com/piwi3910/SlabTile/internal/model"
	"github.com/piwi3910/SlabTile/internal/project"
)

// maxBodyBytes bounds a layout request body.
const maxBodyBytes = 1 << 20

// Server serves layouts for the rooms of a loaded spec.
type Server struct {
	spec      *project.Spec
	templates model.TemplateStore
	port      int
}

// LayoutRequest is the body of POST /api/layout. Room selects a room spec entry by
// label or ID; Enclosure overrides it. Settings default to the room spec.
type LayoutRequest struct {
	Room      string              `json:"room,omitempty"`
	Enclosure *model.Enclosure    `json:"enclosure,omitempty"`
	Settings  *model.GridSettings `json:"settings,omitempty"`
	Template  string              `json:"template,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a server for the given spec. spec may be nil, in which case
// every layout request must carry its own enclosure.
func New(spec *project.Spec, templates model.TemplateStore, port int) *Server {
	return &Server{
		spec:      spec,
		templates: templates,
		port:      port,
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/layout", s.handleLayout)
	mux.HandleFunc("POST /api/compare", s.handleCompare)
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("GET /api/spec", s.handleSpec)
	mux.HandleFunc("GET /", s.handleIndex)

	return mux
}

// Start launches the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log := logging.Logger()
	log.Info("SlabTile server starting", "addr", "http://localhost"+srv.Addr)
	if s.spec != nil {
		log.Info("serving spec", "name", s.spec.Name, "rooms", len(s.spec.Rooms))
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>SlabTile</title></head>
<body style="font-family:system-ui;margin:2em">
<h1>SlabTile</h1>
<ul>
<li><code>POST /api/layout</code> lay out a room</li>
<li><code>POST /api/compare</code> compare laying patterns</li>
<li><code>GET /api/templates</code> laying patterns</li>
<li><code>GET /api/spec</code> loaded room spec</li>
</ul>
</body></html>`)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	enclosure, settings, err := s.decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := engine.New(settings).Layout(r.Context(), enclosure)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	logging.Logger().Debug("served layout", "room", enclosure.Label, "tiles", len(result.Tiles))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	enclosure, settings, err := s.decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results := engine.CompareScenarios(r.Context(), engine.BuildDefaultScenarios(settings), enclosure)

	type row struct {
		engine.ComparisonResult
		Error string `json:"error,omitempty"`
	}
	rows := make([]row, len(results))
	for i, res := range results {
		rows[i] = row{ComparisonResult: res}
		if res.Err != nil {
			rows[i].Error = res.Err.Error()
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room":      enclosure,
		"scenarios": rows,
		"best":      engine.BestScenario(results),
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.templates)
}

func (s *Server) handleSpec(w http.ResponseWriter, _ *http.Request) {
	if s.spec == nil {
		writeError(w, http.StatusNotFound, errors.New("no spec loaded"))
		return
	}
	writeJSON(w, http.StatusOK, s.spec)
}

// decodeRequest resolves the enclosure and settings of a layout request.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (model.Enclosure, model.GridSettings, error) {
	var req LayoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return model.Enclosure{}, model.GridSettings{}, fmt.Errorf("invalid request body: %w", err)
	}

	settings := model.DefaultGridSettings()
	if s.spec != nil {
		settings = s.spec.Settings
	}
	if req.Settings != nil {
		settings = *req.Settings
	}
	// Clients may lower the cell ceiling but never raise it.
	settings.MaxCells = min(settings.CellLimit(), model.DefaultMaxCells)

	if req.Template != "" {
		tmpl := s.templates.FindByID(req.Template)
		if tmpl == nil {
			tmpl = s.templates.FindByName(req.Template)
		}
		if tmpl == nil {
			return model.Enclosure{}, model.GridSettings{}, fmt.Errorf("unknown template %q", req.Template)
		}
		settings = tmpl.ApplyTo(settings)
	}

	if req.Enclosure != nil {
		return *req.Enclosure, settings, nil
	}

	room, err := s.findRoom(req.Room)
	if err != nil {
		return model.Enclosure{}, model.GridSettings{}, err
	}
	return room, settings, nil
}

// findRoom returns the room spec entry with the given label or ID, or the first
// room when key is empty.
func (s *Server) findRoom(key string) (model.Enclosure, error) {
	if s.spec == nil || len(s.spec.Rooms) == 0 {
		return model.Enclosure{}, errors.New("request has no enclosure and no spec is loaded")
	}
	if key == "" {
		return s.spec.Rooms[0], nil
	}
	for _, room := range s.spec.Rooms {
		if room.Label == key || room.ID == key {
			return room, nil
		}
	}
	return model.Enclosure{}, fmt.Errorf("unknown room %q", key)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrCellLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
