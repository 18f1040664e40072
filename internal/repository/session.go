package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pairloop/pairing-server-go/internal/model"
)

type SessionRepository interface {
	FindByID(ctx context.Context, id string) (*model.PairSession, error)
	Create(ctx context.Context, params model.CreateSessionParams) (*model.PairSession, error)
	ListByParticipant(ctx context.Context, memberID string) ([]model.PairSession, error)
	// The Mark* operations are conditional writes guarded on the expected
	// prior status. A false return means the guard did not hold, typically
	// because a concurrent duplicate call already transitioned the session.
	MarkStarted(ctx context.Context, id string) (bool, error)
	MarkCompleted(ctx context.Context, id string) (bool, error)
	MarkCancelled(ctx context.Context, id string) (bool, error)
	// SaveParticipantNotes merges a single participant's notes entry into the
	// notes document without touching other participants' entries.
	SaveParticipantNotes(ctx context.Context, id, memberID string, notes model.SessionNotes) (bool, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) SessionRepository
}

type sessionDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type sessionRepo struct {
	db sessionDB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) WithTx(tx *sqlx.Tx) SessionRepository {
	return &sessionRepo{db: tx}
}

func (r *sessionRepo) FindByID(ctx context.Context, id string) (*model.PairSession, error) {
	var session model.PairSession
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM pair_sessions WHERE id = $1
	`, id)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.PairSession, error) {
	var session model.PairSession
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO pair_sessions (
			id, participant_ids, session_type, status, scheduled_time, notes
		)
		VALUES ($1, $2, $3, 'scheduled', $4, '{}'::jsonb)
		RETURNING *
	`,
		params.ID,
		pq.Array(params.ParticipantIDs),
		params.SessionType,
		params.ScheduledTime,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ListByParticipant(ctx context.Context, memberID string) ([]model.PairSession, error) {
	sessions := []model.PairSession{}
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT * FROM pair_sessions
		WHERE $1 = ANY(participant_ids)
		ORDER BY created_at DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) MarkStarted(ctx context.Context, id string) (bool, error) {
	return r.guardedExec(ctx, `
		UPDATE pair_sessions SET
			status = 'in-progress',
			started_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status = 'scheduled'
	`, id)
}

func (r *sessionRepo) MarkCompleted(ctx context.Context, id string) (bool, error) {
	return r.guardedExec(ctx, `
		UPDATE pair_sessions SET
			status = 'completed',
			completed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status = 'in-progress'
	`, id)
}

func (r *sessionRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	return r.guardedExec(ctx, `
		UPDATE pair_sessions SET
			status = 'cancelled',
			updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'in-progress')
	`, id)
}

func (r *sessionRepo) SaveParticipantNotes(ctx context.Context, id, memberID string, notes model.SessionNotes) (bool, error) {
	payload, err := json.Marshal(notes)
	if err != nil {
		return false, err
	}

	// jsonb_set touches only this participant's key, so two participants
	// saving concurrently cannot clobber each other's entries.
	result, err := r.db.ExecContext(ctx, `
		UPDATE pair_sessions SET
			notes = jsonb_set(COALESCE(notes, '{}'::jsonb), ARRAY[$2], $3::jsonb),
			updated_at = NOW()
		WHERE id = $1 AND status IN ('in-progress', 'completed')
	`, id, memberID, payload)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *sessionRepo) guardedExec(ctx context.Context, query string, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
