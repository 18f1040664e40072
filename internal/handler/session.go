package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/pairloop/pairing-server-go/internal/errors"
	"github.com/pairloop/pairing-server-go/internal/middleware"
	"github.com/pairloop/pairing-server-go/internal/model"
	"github.com/pairloop/pairing-server-go/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMine)
	r.Get("/{sessionID}", h.Get)
	r.Post("/{sessionID}/start", h.Start)
	r.Put("/{sessionID}/notes", h.SaveNotes)
	r.Post("/{sessionID}/complete", h.Complete)
	r.Post("/{sessionID}/cancel", h.Cancel)

	return r
}

// GET /v1/sessions
func (h *SessionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())

	sessions, err := h.sessionService.ListMine(r.Context(), memberID)
	if err != nil {
		log.Error().Err(err).Str("memberId", memberID).Msg("failed to list sessions")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// GET /v1/sessions/{sessionID}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessionService.Get(r.Context(), sessionID, memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// POST /v1/sessions/{sessionID}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessionService.Start(r.Context(), sessionID, memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// PUT /v1/sessions/{sessionID}/notes
func (h *SessionHandler) SaveNotes(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	var notes model.SessionNotes
	if err := json.NewDecoder(r.Body).Decode(&notes); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid JSON"))
		return
	}

	session, err := h.sessionService.SaveNotes(r.Context(), sessionID, memberID, notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// POST /v1/sessions/{sessionID}/complete
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessionService.Complete(r.Context(), sessionID, memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// POST /v1/sessions/{sessionID}/cancel
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessionService.Cancel(r.Context(), sessionID, memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
