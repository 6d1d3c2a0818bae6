package services

import (
	"context"
	"fmt"
	"strings"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo domain.ProfileRepository
	opts        Options
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(profileRepo domain.ProfileRepository, opts Options) domain.ProfileService {
	return &profileService{profileRepo: profileRepo, opts: opts.withDefaults()}
}

func (s *profileService) GetProfile(ctx context.Context, caller domain.Identity) (*domain.Profile, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()
	return ensureProfile(ctx, s.profileRepo, caller, s.opts.Now())
}

func (s *profileService) SaveProfile(ctx context.Context, caller domain.Identity, displayName string) (*domain.Profile, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	if _, err := ensureProfile(ctx, s.profileRepo, caller, s.opts.Now()); err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	var p *domain.Profile
	err := s.opts.retryTx(ctx, "save_profile", func() error {
		var err error
		p, err = s.profileRepo.Update(ctx, caller.UserID, func(p *domain.Profile) (bool, error) {
			if displayName == "" || displayName == p.DisplayName {
				return false, nil
			}
			p.DisplayName = displayName
			return true, nil
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}
