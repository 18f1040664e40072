package handler

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/pairloop/pairing-server-go/internal/database"
	"github.com/pairloop/pairing-server-go/internal/model"
	"github.com/pairloop/pairing-server-go/internal/repository"
)

// Mock repositories

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByMemberID(ctx context.Context, memberID string) (*model.PairProfile, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PairProfile), args.Error(1)
}

func (m *mockProfileRepo) Upsert(ctx context.Context, params model.UpsertProfileParams) (*model.PairProfile, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PairProfile), args.Error(1)
}

func (m *mockProfileRepo) ListActive(ctx context.Context) ([]model.PairProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PairProfile), args.Error(1)
}

func (m *mockProfileRepo) WithTx(tx *sqlx.Tx) repository.ProfileRepository {
	return m
}

type mockRequestRepo struct {
	mock.Mock
}

func (m *mockRequestRepo) FindByID(ctx context.Context, id string) (*model.PairingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PairingRequest), args.Error(1)
}

func (m *mockRequestRepo) Create(ctx context.Context, params model.CreateRequestParams) (*model.PairingRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PairingRequest), args.Error(1)
}

func (m *mockRequestRepo) ListSent(ctx context.Context, userID string, limit int) ([]model.PairingRequest, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.PairingRequest), args.Error(1)
}

func (m *mockRequestRepo) ListReceived(ctx context.Context, userID string, limit int) ([]model.PairingRequest, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.PairingRequest), args.Error(1)
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockRequestRepo) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRequestRepo) WithTx(tx *sqlx.Tx) repository.RequestRepository {
	return m
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.PairSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PairSession), args.Error(1)
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.PairSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PairSession), args.Error(1)
}

func (m *mockSessionRepo) ListByParticipant(ctx context.Context, memberID string) ([]model.PairSession, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]model.PairSession), args.Error(1)
}

func (m *mockSessionRepo) MarkStarted(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepo) MarkCompleted(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepo) SaveParticipantNotes(ctx context.Context, id, memberID string, notes model.SessionNotes) (bool, error) {
	args := m.Called(ctx, id, memberID, notes)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepo) WithTx(tx *sqlx.Tx) repository.SessionRepository {
	return m
}

// stubTxRunner runs the transaction body without a real database.
type stubTxRunner struct {
	err error
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn database.TxFunc) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}
