package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pairloop/pairing-server-go/internal/model"
)

type ProfileRepository interface {
	FindByMemberID(ctx context.Context, memberID string) (*model.PairProfile, error)
	Upsert(ctx context.Context, params model.UpsertProfileParams) (*model.PairProfile, error)
	ListActive(ctx context.Context) ([]model.PairProfile, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ProfileRepository
}

// profileDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type profileDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type profileRepo struct {
	db profileDB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) WithTx(tx *sqlx.Tx) ProfileRepository {
	return &profileRepo{db: tx}
}

func (r *profileRepo) FindByMemberID(ctx context.Context, memberID string) (*model.PairProfile, error) {
	var profile model.PairProfile
	err := r.db.GetContext(ctx, &profile, `
		SELECT * FROM pair_profiles WHERE member_id = $1
	`, memberID)
	return HandleNotFound(&profile, err)
}

func (r *profileRepo) Upsert(ctx context.Context, params model.UpsertProfileParams) (*model.PairProfile, error) {
	var profile model.PairProfile
	err := r.db.GetContext(ctx, &profile, `
		INSERT INTO pair_profiles (
			member_id, skills_teach, skills_learn, languages, frameworks,
			timezone, availability, session_types, bio, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (member_id) DO UPDATE SET
			skills_teach  = EXCLUDED.skills_teach,
			skills_learn  = EXCLUDED.skills_learn,
			languages     = EXCLUDED.languages,
			frameworks    = EXCLUDED.frameworks,
			timezone      = EXCLUDED.timezone,
			availability  = EXCLUDED.availability,
			session_types = EXCLUDED.session_types,
			bio           = EXCLUDED.bio,
			is_active     = EXCLUDED.is_active,
			updated_at    = NOW()
		RETURNING *
	`,
		params.MemberID,
		pq.Array(params.SkillsCanTeach),
		pq.Array(params.SkillsWantToLearn),
		pq.Array(params.PreferredLanguages),
		pq.Array(params.PreferredFrameworks),
		params.Timezone,
		params.Availability,
		pq.Array(params.SessionTypes),
		params.Bio,
		params.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) ListActive(ctx context.Context) ([]model.PairProfile, error) {
	profiles := []model.PairProfile{}
	err := r.db.SelectContext(ctx, &profiles, `
		SELECT * FROM pair_profiles
		WHERE is_active
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
