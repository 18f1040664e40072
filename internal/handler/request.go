package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	apperrors "github.com/pairloop/pairing-server-go/internal/errors"
	"github.com/pairloop/pairing-server-go/internal/middleware"
	"github.com/pairloop/pairing-server-go/internal/model"
	"github.com/pairloop/pairing-server-go/internal/service"
)

type RequestHandler struct {
	requestService *service.RequestService
	validate       *validator.Validate
}

func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *RequestHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/{requestID}/respond", h.Respond)

	return r
}

type createRequestRequest struct {
	ToUserID     string     `json:"toUserId" validate:"required"`
	SessionType  string     `json:"sessionType" validate:"required"`
	Message      string     `json:"message" validate:"required"`
	ProposedTime *time.Time `json:"proposedTime"`
}

// POST /v1/requests
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())

	var req createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid JSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, apperrors.ValidationError(err.Error()))
		return
	}

	request, err := h.requestService.Create(r.Context(), memberID, service.CreateRequestInput{
		ToUserID:     req.ToUserID,
		SessionType:  model.SessionType(req.SessionType),
		Message:      req.Message,
		ProposedTime: req.ProposedTime,
	})
	if err != nil {
		log.Error().Err(err).Str("from", memberID).Msg("failed to create pairing request")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

// GET /v1/requests?direction=sent|received
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	direction := model.RequestDirection(r.URL.Query().Get("direction"))

	requests, err := h.requestService.List(r.Context(), memberID, direction)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

type respondRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline cancel"`
}

// POST /v1/requests/{requestID}/respond
func (h *RequestHandler) Respond(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid JSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, apperrors.ValidationError(err.Error()))
		return
	}

	result, err := h.requestService.Respond(r.Context(), requestID, memberID, model.RequestAction(req.Action))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
