package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairloop/pairing-server-go/internal/database"
	"github.com/pairloop/pairing-server-go/internal/model"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(url)
	require.NoError(t, err)
	return db
}

func createTestSession(t *testing.T, repo SessionRepository) *model.PairSession {
	t.Helper()
	session, err := repo.Create(context.Background(), model.CreateSessionParams{
		ID:             uuid.NewString(),
		ParticipantIDs: []string{"alice", "bob"},
		SessionType:    model.SessionTypeTeachMe,
	})
	require.NoError(t, err)
	return session
}

func TestSessionRepository_StatusGuards(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSessionRepository(db.DB)
	ctx := context.Background()

	t.Run("start succeeds only once", func(t *testing.T) {
		session := createTestSession(t, repo)

		started, err := repo.MarkStarted(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, started)

		again, err := repo.MarkStarted(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, again)
	})

	t.Run("cancel does not resurrect a completed session", func(t *testing.T) {
		session := createTestSession(t, repo)

		_, err := repo.MarkStarted(ctx, session.ID)
		require.NoError(t, err)
		completed, err := repo.MarkCompleted(ctx, session.ID)
		require.NoError(t, err)
		require.True(t, completed)

		cancelled, err := repo.MarkCancelled(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, cancelled)

		found, err := repo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusCompleted, found.Status)
		assert.NotNil(t, found.CompletedAt)
	})
}

func TestSessionRepository_SaveParticipantNotes(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSessionRepository(db.DB)
	ctx := context.Background()

	t.Run("rejected while scheduled", func(t *testing.T) {
		session := createTestSession(t, repo)

		saved, err := repo.SaveParticipantNotes(ctx, session.ID, "alice",
			model.SessionNotes{WhatWeWorkedOn: "too early"})
		require.NoError(t, err)
		assert.False(t, saved)
	})

	t.Run("merges per participant without clobbering", func(t *testing.T) {
		session := createTestSession(t, repo)
		_, err := repo.MarkStarted(ctx, session.ID)
		require.NoError(t, err)

		saved, err := repo.SaveParticipantNotes(ctx, session.ID, "alice",
			model.SessionNotes{WhatWeWorkedOn: "generics"})
		require.NoError(t, err)
		require.True(t, saved)

		saved, err = repo.SaveParticipantNotes(ctx, session.ID, "bob",
			model.SessionNotes{WhatILearned: "table tests"})
		require.NoError(t, err)
		require.True(t, saved)

		found, err := repo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, "generics", found.Notes["alice"].WhatWeWorkedOn)
		assert.Equal(t, "table tests", found.Notes["bob"].WhatILearned)
	})
}

func TestRequestRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRequestRepository(db.DB)
	ctx := context.Background()

	request, err := repo.Create(ctx, model.CreateRequestParams{
		ID:          uuid.NewString(),
		FromUserID:  "alice",
		ToUserID:    "bob",
		SessionType: model.SessionTypeCodeReview,
		Message:     "review my scheduler?",
	})
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusPending, request.Status)

	changed, err := repo.UpdateStatus(ctx, request.ID, model.RequestStatusPending, model.RequestStatusAccepted)
	require.NoError(t, err)
	assert.True(t, changed)

	// The pending guard has already been consumed.
	changed, err = repo.UpdateStatus(ctx, request.ID, model.RequestStatusPending, model.RequestStatusDeclined)
	require.NoError(t, err)
	assert.False(t, changed)

	found, err := repo.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, found.Status)
}
