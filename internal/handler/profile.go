package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	apperrors "github.com/pairloop/pairing-server-go/internal/errors"
	"github.com/pairloop/pairing-server-go/internal/middleware"
	"github.com/pairloop/pairing-server-go/internal/model"
	"github.com/pairloop/pairing-server-go/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	validate       *validator.Validate
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *ProfileHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Put("/me", h.UpsertMine)
	r.Get("/me", h.GetMine)
	r.Get("/", h.ListActive)

	return r
}

type upsertProfileRequest struct {
	SkillsCanTeach      []string                   `json:"skillsCanTeach"`
	SkillsWantToLearn   []string                   `json:"skillsWantToLearn"`
	PreferredLanguages  []string                   `json:"preferredLanguages"`
	PreferredFrameworks []string                   `json:"preferredFrameworks"`
	Timezone            string                     `json:"timezone"`
	Availability        []model.AvailabilityWindow `json:"availability"`
	SessionTypes        []string                   `json:"sessionTypes" validate:"dive,oneof=teach-me build-together code-review explore-topic"`
	Bio                 *string                    `json:"bio" validate:"omitempty,max=1000"`
	IsActive            bool                       `json:"isActive"`
}

// PUT /v1/profiles/me
func (h *ProfileHandler) UpsertMine(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())

	var req upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid JSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, apperrors.ValidationError(err.Error()))
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), model.UpsertProfileParams{
		MemberID:            memberID,
		SkillsCanTeach:      req.SkillsCanTeach,
		SkillsWantToLearn:   req.SkillsWantToLearn,
		PreferredLanguages:  req.PreferredLanguages,
		PreferredFrameworks: req.PreferredFrameworks,
		Timezone:            req.Timezone,
		Availability:        req.Availability,
		SessionTypes:        req.SessionTypes,
		Bio:                 req.Bio,
		IsActive:            req.IsActive,
	})
	if err != nil {
		log.Error().Err(err).Str("memberId", memberID).Msg("failed to upsert profile")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// GET /v1/profiles/me
func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())

	profile, err := h.profileService.Get(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// GET /v1/profiles
func (h *ProfileHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.ListActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list profiles")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}
