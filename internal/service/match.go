package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pairloop/pairing-server-go/internal/config"
	apperrors "github.com/pairloop/pairing-server-go/internal/errors"
	"github.com/pairloop/pairing-server-go/internal/matching"
	"github.com/pairloop/pairing-server-go/internal/model"
	"github.com/pairloop/pairing-server-go/internal/repository"
)

type MatchService struct {
	profileRepo  repository.ProfileRepository
	defaultLimit int
}

func NewMatchService(profileRepo repository.ProfileRepository, defaultLimit int) *MatchService {
	return &MatchService{
		profileRepo:  profileRepo,
		defaultLimit: defaultLimit,
	}
}

// RankCandidates scores every active profile against the member's own and
// returns the best matches. The pool is re-read on every call; ranking never
// works from a cached snapshot.
func (s *MatchService) RankCandidates(ctx context.Context, memberID string, limit int) ([]model.MatchScore, error) {
	if limit <= 0 || limit > config.MaxMatchLimit {
		limit = s.defaultLimit
	}

	self, err := s.profileRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if self == nil {
		return nil, apperrors.NotFound("Profile")
	}

	pool, err := s.profileRepo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	ranked := matching.Rank(self, pool, limit)

	log.Debug().
		Str("memberId", memberID).
		Int("poolSize", len(pool)).
		Int("matches", len(ranked)).
		Msg("ranked pairing candidates")

	return ranked, nil
}
