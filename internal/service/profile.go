package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/pairloop/pairing-server-go/internal/errors"
	"github.com/pairloop/pairing-server-go/internal/model"
	"github.com/pairloop/pairing-server-go/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// Upsert creates or replaces the member's pair profile. The member id is the
// immutable key; everything else is overwritten.
func (s *ProfileService) Upsert(ctx context.Context, params model.UpsertProfileParams) (*model.PairProfile, error) {
	if err := validateProfile(&params); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.Upsert(ctx, params)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	log.Info().
		Str("memberId", profile.MemberID).
		Bool("isActive", profile.IsActive).
		Msg("profile upserted")

	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context, memberID string) (*model.PairProfile, error) {
	profile, err := s.profileRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if profile == nil {
		return nil, apperrors.NotFound("Profile")
	}
	return profile, nil
}

// ListActive returns every active profile, most recently updated first.
func (s *ProfileService) ListActive(ctx context.Context) ([]model.PairProfile, error) {
	profiles, err := s.profileRepo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return profiles, nil
}

func validateProfile(params *model.UpsertProfileParams) error {
	if strings.TrimSpace(params.MemberID) == "" {
		return apperrors.MissingRequired("memberId")
	}

	if params.Timezone != "" {
		if _, err := time.LoadLocation(params.Timezone); err != nil {
			return apperrors.InvalidInput("timezone", "unknown zone name")
		}
	}

	for _, st := range params.SessionTypes {
		if !model.SessionType(st).Valid() {
			return apperrors.InvalidInput("sessionTypes", "unknown session type "+st)
		}
	}

	for _, w := range params.Availability {
		if err := w.Validate(); err != nil {
			return apperrors.InvalidInput("availability", err.Error())
		}
	}

	return nil
}
