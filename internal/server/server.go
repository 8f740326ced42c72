package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/export"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/view"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/viewstate"
)

// Screens are the view-state holders the server drives.
type Screens struct {
	Dashboard       *viewstate.Dashboard
	Usage           *viewstate.Usage
	Appliances      *viewstate.Appliances
	Recommendations *viewstate.Recommendations
	Settings        *viewstate.Settings
}

type Server struct {
	router   chi.Router
	screens  Screens
	exporter *export.Exporter
	hub      *hub
	log      zerolog.Logger

	mu  sync.Mutex
	ctx context.Context
}

// New wires the routes. exporter may be nil, which disables the export endpoints.
func New(screens Screens, exporter *export.Exporter, logger zerolog.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		screens:  screens,
		exporter: exporter,
		log:      logger.With().Str("component", "server").Logger(),
		ctx:      context.Background(),
	}
	s.hub = newHub(s.log, screenNames, s.model)
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start activates every screen under ctx and pushes their view models to websocket clients
// whenever they change. It returns at once; ctx ends the push loop and cancels pending reads.
// Websocket clients are served only after Start.
func (s *Server) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	for name, sc := range s.subscribables() {
		sc.Subscribe(func() { s.hub.publish(name) })
	}
	go s.hub.run(ctx)

	s.screens.Dashboard.Activate(ctx)
	s.screens.Usage.Activate(ctx)
	s.screens.Appliances.Activate(ctx)
	s.screens.Recommendations.Activate(ctx)
	s.screens.Settings.Activate(ctx)
}

func (s *Server) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

var screenNames = []string{"appliances", "dashboard", "recommendations", "settings", "usage"}

type subscribable interface {
	Subscribe(fn func()) func()
}

func (s *Server) subscribables() map[string]subscribable {
	return map[string]subscribable{
		"dashboard":       s.screens.Dashboard,
		"usage":           s.screens.Usage,
		"appliances":      s.screens.Appliances,
		"recommendations": s.screens.Recommendations,
		"settings":        s.screens.Settings,
	}
}

// model renders the current view model of the named screen.
func (s *Server) model(name string) any {
	switch name {
	case "dashboard":
		return view.Dashboard(s.screens.Dashboard.Snapshot())
	case "usage":
		return view.Usage(s.screens.Usage.Snapshot())
	case "appliances":
		return view.Appliances(s.screens.Appliances.Snapshot())
	case "recommendations":
		return view.Recommendations(s.screens.Recommendations.Snapshot())
	case "settings":
		return view.Settings(s.screens.Settings.Snapshot())
	}
	return nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Route("/dashboard", s.dashboardRoutes)
		r.Route("/usage", s.usageRoutes)
		r.Route("/appliances", s.applianceRoutes)
		r.Route("/recommendations", s.recommendationRoutes)
		r.Route("/settings", s.settingsRoutes)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(domain.ErrInvalid, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, viewstate.ErrNotLoaded),
		errors.Is(err, viewstate.ErrSaveInProgress),
		errors.Is(err, export.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, api.ErrTransport),
		errors.Is(err, api.ErrApplication),
		errors.Is(err, api.ErrMalformed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
	Model any    `json:"model,omitempty"`
}

// respond writes the screen's view model, or the error together with the model so the
// client also gets the notice that was raised.
func (s *Server) respond(w http.ResponseWriter, screen string, err error) {
	if err != nil {
		s.log.Debug().Err(err).Str("screen", screen).Msg("action failed")
		writeJSON(w, statusFor(err), errorBody{Error: err.Error(), Model: s.model(screen)})
		return
	}
	writeJSON(w, http.StatusOK, s.model(screen))
}

func pathIndex(r *http.Request, key string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrInvalid, key, chi.URLParam(r, key))
	}
	return v, nil
}
