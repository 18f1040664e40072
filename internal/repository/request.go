package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pairloop/pairing-server-go/internal/model"
)

type RequestRepository interface {
	FindByID(ctx context.Context, id string) (*model.PairingRequest, error)
	Create(ctx context.Context, params model.CreateRequestParams) (*model.PairingRequest, error)
	ListSent(ctx context.Context, userID string, limit int) ([]model.PairingRequest, error)
	ListReceived(ctx context.Context, userID string, limit int) ([]model.PairingRequest, error)
	// UpdateStatus transitions the request from one status to another and
	// reports whether a row actually changed. A false return means the
	// request was not in the expected prior status.
	UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) (bool, error)
	// DeleteResolvedBefore removes declined and cancelled requests last
	// touched before the cutoff. Pending and accepted requests are kept.
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) RequestRepository
}

type requestDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type requestRepo struct {
	db requestDB
}

func NewRequestRepository(db *sqlx.DB) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) WithTx(tx *sqlx.Tx) RequestRepository {
	return &requestRepo{db: tx}
}

func (r *requestRepo) FindByID(ctx context.Context, id string) (*model.PairingRequest, error) {
	var request model.PairingRequest
	err := r.db.GetContext(ctx, &request, `
		SELECT * FROM pairing_requests WHERE id = $1
	`, id)
	return HandleNotFound(&request, err)
}

func (r *requestRepo) Create(ctx context.Context, params model.CreateRequestParams) (*model.PairingRequest, error) {
	var request model.PairingRequest
	err := r.db.GetContext(ctx, &request, `
		INSERT INTO pairing_requests (
			id, from_user_id, to_user_id, session_type, message, status, proposed_time
		)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		RETURNING *
	`,
		params.ID,
		params.FromUserID,
		params.ToUserID,
		params.SessionType,
		params.Message,
		params.ProposedTime,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepo) ListSent(ctx context.Context, userID string, limit int) ([]model.PairingRequest, error) {
	requests := []model.PairingRequest{}
	err := r.db.SelectContext(ctx, &requests, `
		SELECT * FROM pairing_requests
		WHERE from_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepo) ListReceived(ctx context.Context, userID string, limit int) ([]model.PairingRequest, error) {
	requests := []model.PairingRequest{}
	err := r.db.SelectContext(ctx, &requests, `
		SELECT * FROM pairing_requests
		WHERE to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepo) UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE pairing_requests SET
			status = $3,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *requestRepo) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM pairing_requests
		WHERE status IN ('declined', 'cancelled') AND updated_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
