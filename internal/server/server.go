// Package server exposes one canvas session over HTTP.
//
// The session is single-threaded, so every request that touches it holds
// the server mutex for its whole duration. Gestures arrive as PATCH
// requests carrying the gesture phase, mirroring the pointer callbacks a
// browser grid library emits.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/catalog"
	gcerrors "github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/grid"
	"github.com/matzehuels/gridcanvas/pkg/permission"
	"github.com/matzehuels/gridcanvas/pkg/session"
	"github.com/matzehuels/gridcanvas/pkg/snapshot"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 5 * time.Second

// Server serves one session.
type Server struct {
	mu     sync.Mutex
	sess   *session.Session
	logger *log.Logger
	router chi.Router
}

// New creates a server for sess.
func New(sess *session.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{sess: sess, logger: logger}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/canvas", s.getCanvas)
		api.Get("/canvas.svg", s.getCanvasSVG)
		api.Get("/catalog", s.getCatalog)
		api.Post("/widgets", s.addWidget)
		api.Delete("/widgets/{id}", s.removeWidget)
		api.Patch("/widgets/{id}/layout", s.updateLayout)
		api.Patch("/widgets/{id}/params", s.updateParams)
		api.Put("/selection", s.putSelection)
		api.Put("/container", s.putContainer)
		api.Put("/permissions", s.putPermissions)
	})
	return r
}

// Run serves s on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Payloads
// =============================================================================

// CanvasResponse is the body of GET /api/canvas.
type CanvasResponse struct {
	Grid      grid.Config             `json:"grid"`
	Instances []canvas.WidgetInstance `json:"instances"`
	Selected  string                  `json:"selected,omitempty"`
	Overlaps  [][2]string             `json:"overlaps,omitempty"`
}

// AddWidgetRequest is the body of POST /api/widgets.
type AddWidgetRequest struct {
	CatalogID string         `json:"catalogId"`
	Params    map[string]any `json:"params"`
}

// ContainerRequest is the body of PUT /api/container.
type ContainerRequest struct {
	WidthPx float64 `json:"widthPx"`
}

// PermissionsRequest is the body of PUT /api/permissions.
type PermissionsRequest struct {
	Granted []string                    `json:"granted"`
	Views   permission.ViewBaseTableMap `json:"views"`
}

// PermissionsResponse lists the instances a permission change dropped.
type PermissionsResponse struct {
	Dropped []string `json:"dropped"`
}

// SelectionRequest is the body of PUT /api/selection. An empty ID clears
// the selection.
type SelectionRequest struct {
	ID string `json:"id"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) getCanvas(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.canvas())
}

func (s *Server) canvas() CanvasResponse {
	instances := s.sess.Instances()
	resp := CanvasResponse{Grid: s.sess.Grid(), Instances: instances}
	if sel, ok := s.sess.Selected(); ok {
		resp.Selected = sel.ID
	}
	resp.Overlaps = collisionPairs(instances)
	return resp
}

func (s *Server) getCanvasSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	opts := snapshot.Options{Detailed: r.URL.Query().Get("detailed") == "true"}
	if sel, ok := s.sess.Selected(); ok {
		opts.Selected = sel.ID
	}
	dot := snapshot.ToDOT(s.sess.Instances(), s.sess.Grid(), opts)
	s.mu.Unlock()

	svg, err := snapshot.RenderSVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, gcerrors.Wrap(gcerrors.ErrCodeInternal, err, "render canvas"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.sess.Catalog().(catalog.Lister)
	if !ok {
		s.writeError(w, gcerrors.New(gcerrors.ErrCodeUnsupported, "catalog cannot be listed"))
		return
	}
	writeJSON(w, http.StatusOK, lister.Entries())
}

func (s *Server) addWidget(w http.ResponseWriter, r *http.Request) {
	var req AddWidgetRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, err := s.sess.AddWidget(r.Context(), req.CatalogID, req.Params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

func (s *Server) removeWidget(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.RemoveWidget(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateLayout(w http.ResponseWriter, r *http.Request) {
	phaseName := r.URL.Query().Get("phase")
	if phaseName == "" {
		phaseName = canvas.Commit.String()
	}
	phase, err := canvas.ParsePhase(phaseName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var l canvas.Layout
	if !s.decode(w, r, &l) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	got, err := s.sess.UpdateLayout(r.Context(), chi.URLParam(r, "id"), l, phase)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (s *Server) updateParams(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if !s.decode(w, r, &patch) {
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.EditParams(r.Context(), id, patch); err != nil {
		s.writeError(w, err)
		return
	}
	inst, _ := s.sess.Get(id)
	writeJSON(w, http.StatusOK, inst)
}

func (s *Server) putSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == "" {
		s.sess.ClearSelection()
	} else if err := s.sess.Select(req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.canvas())
}

func (s *Server) putContainer(w http.ResponseWriter, r *http.Request) {
	var req ContainerRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.ContainerResized(r.Context(), req.WidthPx); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.canvas())
}

func (s *Server) putPermissions(w http.ResponseWriter, r *http.Request) {
	var req PermissionsRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := s.sess.PermissionsChanged(r.Context(), permission.NewSet(req.Granted...), req.Views)
	if dropped == nil {
		dropped = []string{}
	}
	writeJSON(w, http.StatusOK, PermissionsResponse{Dropped: dropped})
}
