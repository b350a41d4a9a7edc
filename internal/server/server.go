package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/kinship/internal/engine"
	"github.com/lazypower/kinship/internal/store"
)

// Server is the kinship HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server with the given database, engine, and
// version string.
func New(db *store.DB, eng *engine.Engine, version string) *Server {
	s := &Server{
		db:      db,
		engine:  eng,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/people", s.handleListPeople)
		r.Post("/people", s.handleCreatePerson)
		r.Put("/people", s.handleReplacePeople)
		r.Get("/people/{personID}", s.handleGetPerson)
		r.Patch("/people/{personID}", s.handlePatchPerson)
		r.Delete("/people/{personID}", s.handleDeletePerson)

		r.Get("/ledger", s.handleGetLedger)
		r.Post("/ledger/{personID}", s.handleToggleAction)

		r.Get("/reminders", s.handleReminders)

		r.Post("/pin", s.handleSetPin)
		r.Post("/unlock", s.handleUnlock)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
