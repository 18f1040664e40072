package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pairloop/pairing-server-go/internal/middleware"
	"github.com/pairloop/pairing-server-go/internal/service"
)

type MatchHandler struct {
	matchService *service.MatchService
}

func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}

// GET /v1/matches?limit=
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())

	matches, err := h.matchService.RankCandidates(r.Context(), memberID, ParseLimit(r))
	if err != nil {
		log.Error().Err(err).Str("memberId", memberID).Msg("failed to rank candidates")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}
