package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/pairloop/pairing-server-go/internal/errors"
	"github.com/pairloop/pairing-server-go/internal/model"
	"github.com/pairloop/pairing-server-go/internal/repository"
)

type SessionService struct {
	sessionRepo repository.SessionRepository
}

func NewSessionService(sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

// Get returns a session to one of its participants.
func (s *SessionService) Get(ctx context.Context, sessionID, actingUserID string) (*model.PairSession, error) {
	return s.load(ctx, sessionID, actingUserID)
}

// ListMine returns every session the member participates in, newest first.
func (s *SessionService) ListMine(ctx context.Context, memberID string) ([]model.PairSession, error) {
	sessions, err := s.sessionRepo.ListByParticipant(ctx, memberID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return sessions, nil
}

// Start moves a scheduled session into progress. The write is conditional on
// the scheduled status, so a double-submit cannot restart a session that a
// concurrent call already moved on.
func (s *SessionService) Start(ctx context.Context, sessionID, actingUserID string) (*model.PairSession, error) {
	session, err := s.load(ctx, sessionID, actingUserID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusScheduled {
		return nil, statusConflict(session.Status)
	}

	started, err := s.sessionRepo.MarkStarted(ctx, sessionID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !started {
		return nil, statusConflict(session.Status)
	}

	log.Info().
		Str("sessionId", sessionID).
		Str("actor", actingUserID).
		Msg("session started")

	return s.load(ctx, sessionID, actingUserID)
}

// SaveNotes writes the acting participant's own notes entry. Other
// participants' entries are never touched. Allowed while the session is in
// progress or after completion.
func (s *SessionService) SaveNotes(ctx context.Context, sessionID, actingUserID string, notes model.SessionNotes) (*model.PairSession, error) {
	if notes.Empty() {
		return nil, apperrors.ValidationError("notes must not be empty")
	}

	session, err := s.load(ctx, sessionID, actingUserID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusInProgress && session.Status != model.SessionStatusCompleted {
		return nil, statusConflict(session.Status)
	}

	saved, err := s.sessionRepo.SaveParticipantNotes(ctx, sessionID, actingUserID, notes)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !saved {
		return nil, statusConflict(session.Status)
	}

	log.Info().
		Str("sessionId", sessionID).
		Str("actor", actingUserID).
		Msg("session notes saved")

	return s.load(ctx, sessionID, actingUserID)
}

// Complete finishes an in-progress session. The acting participant must have
// saved their own notes first.
func (s *SessionService) Complete(ctx context.Context, sessionID, actingUserID string) (*model.PairSession, error) {
	session, err := s.load(ctx, sessionID, actingUserID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusInProgress {
		return nil, statusConflict(session.Status)
	}

	if entry, ok := session.Notes[actingUserID]; !ok || entry.Empty() {
		return nil, apperrors.ValidationError("save your session notes before completing")
	}

	completed, err := s.sessionRepo.MarkCompleted(ctx, sessionID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !completed {
		return nil, statusConflict(session.Status)
	}

	log.Info().
		Str("sessionId", sessionID).
		Str("actor", actingUserID).
		Msg("session completed")

	return s.load(ctx, sessionID, actingUserID)
}

// Cancel aborts a session from any non-terminal state.
func (s *SessionService) Cancel(ctx context.Context, sessionID, actingUserID string) (*model.PairSession, error) {
	session, err := s.load(ctx, sessionID, actingUserID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, statusConflict(session.Status)
	}

	cancelled, err := s.sessionRepo.MarkCancelled(ctx, sessionID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !cancelled {
		return nil, statusConflict(session.Status)
	}

	log.Info().
		Str("sessionId", sessionID).
		Str("actor", actingUserID).
		Msg("session cancelled")

	return s.load(ctx, sessionID, actingUserID)
}

// load fetches the session and checks the actor is a participant.
func (s *SessionService) load(ctx context.Context, sessionID, actingUserID string) (*model.PairSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}
	if !session.HasParticipant(actingUserID) {
		return nil, apperrors.Unauthorized("not a participant of this session")
	}
	return session, nil
}

func statusConflict(current model.SessionStatus) *apperrors.AppError {
	return apperrors.Conflict(fmt.Sprintf("session is %s", current))
}
