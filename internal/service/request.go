package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/pairloop/pairing-server-go/internal/database"
	apperrors "github.com/pairloop/pairing-server-go/internal/errors"
	"github.com/pairloop/pairing-server-go/internal/model"
	"github.com/pairloop/pairing-server-go/internal/repository"
)

// TxRunner runs a function inside an atomic store transaction with retry on
// write contention. *database.DB satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type CreateRequestInput struct {
	ToUserID     string
	SessionType  model.SessionType
	Message      string
	ProposedTime *time.Time
}

type RespondResult struct {
	Status    model.RequestStatus `json:"status"`
	SessionID *string             `json:"sessionId,omitempty"`
}

type RequestService struct {
	db          TxRunner
	requestRepo repository.RequestRepository
	sessionRepo repository.SessionRepository
	profileRepo repository.ProfileRepository
	listLimit   int
}

func NewRequestService(
	db TxRunner,
	requestRepo repository.RequestRepository,
	sessionRepo repository.SessionRepository,
	profileRepo repository.ProfileRepository,
	listLimit int,
) *RequestService {
	return &RequestService{
		db:          db,
		requestRepo: requestRepo,
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		listLimit:   listLimit,
	}
}

// Create opens a pending pairing request from one member to another.
func (s *RequestService) Create(ctx context.Context, fromUserID string, input CreateRequestInput) (*model.PairingRequest, error) {
	if input.ToUserID == fromUserID {
		return nil, apperrors.ValidationError("cannot send a pairing request to yourself")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.ValidationError("message must not be empty")
	}
	if !input.SessionType.Valid() {
		return nil, apperrors.InvalidInput("sessionType", "unknown session type")
	}

	recipient, err := s.profileRepo.FindByMemberID(ctx, input.ToUserID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if recipient == nil {
		return nil, apperrors.NotFound("Recipient profile")
	}
	if !recipient.IsActive {
		return nil, apperrors.Conflict("recipient is not looking for pairings right now")
	}

	request, err := s.requestRepo.Create(ctx, model.CreateRequestParams{
		ID:           uuid.NewString(),
		FromUserID:   fromUserID,
		ToUserID:     input.ToUserID,
		SessionType:  input.SessionType,
		Message:      input.Message,
		ProposedTime: input.ProposedTime,
	})
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	log.Info().
		Str("requestId", request.ID).
		Str("from", fromUserID).
		Str("to", input.ToUserID).
		Str("sessionType", string(input.SessionType)).
		Msg("pairing request created")

	return request, nil
}

// List returns the member's requests in the given direction, newest first.
func (s *RequestService) List(ctx context.Context, userID string, direction model.RequestDirection) ([]model.PairingRequest, error) {
	var (
		requests []model.PairingRequest
		err      error
	)
	switch direction {
	case model.DirectionSent:
		requests, err = s.requestRepo.ListSent(ctx, userID, s.listLimit)
	case model.DirectionReceived:
		requests, err = s.requestRepo.ListReceived(ctx, userID, s.listLimit)
	default:
		return nil, apperrors.InvalidInput("direction", "must be 'sent' or 'received'")
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return requests, nil
}

// Respond carries out the guarded pending -> terminal transition for a
// request. Accept and decline belong to the recipient, cancel to the sender.
// The whole read-check-write (plus session creation on accept) runs inside
// one serializable transaction, so of two concurrent responders exactly one
// observes the pending status; the other gets a conflict.
func (s *RequestService) Respond(ctx context.Context, requestID, actingUserID string, action model.RequestAction) (*RespondResult, error) {
	var target model.RequestStatus
	switch action {
	case model.RequestActionAccept:
		target = model.RequestStatusAccepted
	case model.RequestActionDecline:
		target = model.RequestStatusDeclined
	case model.RequestActionCancel:
		target = model.RequestStatusCancelled
	default:
		return nil, apperrors.InvalidInput("action", "must be 'accept', 'decline' or 'cancel'")
	}

	result := &RespondResult{Status: target}

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		requests := s.requestRepo.WithTx(tx)

		request, err := requests.FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return apperrors.NotFound("Request")
		}

		if action == model.RequestActionCancel {
			if request.FromUserID != actingUserID {
				return apperrors.Unauthorized("only the sender can cancel a request")
			}
		} else if request.ToUserID != actingUserID {
			return apperrors.Unauthorized("only the recipient can respond to a request")
		}

		if request.Status != model.RequestStatusPending {
			return apperrors.Conflict("already responded")
		}

		changed, err := requests.UpdateStatus(ctx, requestID, model.RequestStatusPending, target)
		if err != nil {
			return err
		}
		if !changed {
			return apperrors.Conflict("already responded")
		}

		if action == model.RequestActionAccept {
			session, err := s.sessionRepo.WithTx(tx).Create(ctx, model.CreateSessionParams{
				ID:             uuid.NewString(),
				ParticipantIDs: []string{request.FromUserID, actingUserID},
				SessionType:    request.SessionType,
				ScheduledTime:  request.ProposedTime,
			})
			if err != nil {
				return err
			}
			result.SessionID = &session.ID
		}

		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		// Anything else is transport trouble, including
		// database.ErrTxRetriesExhausted after contention retries ran out.
		return nil, apperrors.StoreUnavailable(err)
	}

	evt := log.Info().
		Str("requestId", requestID).
		Str("actor", actingUserID).
		Str("status", string(target))
	if result.SessionID != nil {
		evt = evt.Str("sessionId", *result.SessionID)
	}
	evt.Msg("pairing request resolved")

	return result, nil
}
