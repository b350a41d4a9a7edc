package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/kinship/internal/score"
	"github.com/lazypower/kinship/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.db.ListPeople(r.URL.Query().Get("sort"))
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if people == nil {
		people = []store.Person{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":  len(people),
		"people": people,
	})
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var p store.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if p.Name == "" {
		http.Error(w, `{"error":"name required"}`, http.StatusBadRequest)
		return
	}

	if err := s.db.CreatePerson(&p); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetPerson(chi.URLParam(r, "personID"))
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (s *Server) handlePatchPerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")

	var patch store.PersonPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	if err := s.db.PatchPerson(personID, patch); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	p, err := s.db.GetPerson(personID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeletePerson(chi.URLParam(r, "personID")); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

// handleReplacePeople swaps the whole people list. Bulk import only,
// the scoring core never calls this.
func (s *Server) handleReplacePeople(w http.ResponseWriter, r *http.Request) {
	var people []store.Person
	if err := json.NewDecoder(r.Body).Decode(&people); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	if err := s.db.ReplaceAllPeople(people); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "imported", "count": len(people)})
}

func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = score.DayKey(s.engine.Clock.Now())
	}

	ledger, err := s.db.LedgerFor(day)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"day":     day,
		"actions": ledger,
	})
}

// handleToggleAction records one action flag in today's ledger. Scores
// and last interaction dates move only at rollover, never here.
func (s *Server) handleToggleAction(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")

	var req struct {
		Field string `json:"field"`
		Value bool   `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	day := score.DayKey(s.engine.Clock.Now())
	if err := s.db.ToggleAction(day, personID, req.Field, req.Value); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"day":    day,
		"field":  req.Field,
		"value":  req.Value,
		"status": "ok",
	})
}

// handleReminders returns the current reminder batch without touching
// the once-per-day marker; the engine owns that.
func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	msgs := s.engine.ScanReminders(s.engine.Clock.Now())
	if msgs == nil {
		msgs = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":     len(msgs),
		"reminders": msgs,
	})
}

func (s *Server) handleSetPin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if len(req.Pin) < 4 {
		http.Error(w, `{"error":"pin must be at least 4 characters"}`, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if err := s.db.SetState(store.StatePinHash, string(hash)); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	hash, err := s.db.GetState(store.StatePinHash)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	// No PIN configured means the gate is open.
	unlocked := hash == "" ||
		bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Pin)) == nil

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"unlocked": unlocked})
}
