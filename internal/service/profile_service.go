package service

import (
	"context"
	"fmt"
	"time"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"

	"github.com/rs/zerolog"
)

// ProfileServiceImpl implements ports.ProfileService: the non-balance side of
// profiles (images, about sections, bios). Balance mutations stay in the
// ledger service.
type ProfileServiceImpl struct {
	profileRepo ports.ProfileRepository
	aboutRepo   ports.AboutRepository
	bioRepo     ports.BioRepository
	log         zerolog.Logger
}

// NewProfileService creates a new ProfileServiceImpl.
func NewProfileService(
	profileRepo ports.ProfileRepository,
	aboutRepo ports.AboutRepository,
	bioRepo ports.BioRepository,
	log zerolog.Logger,
) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		profileRepo: profileRepo,
		aboutRepo:   aboutRepo,
		bioRepo:     bioRepo,
		log:         log,
	}
}

// SetProfileImage stores the avatar URL, provisioning the profile when new.
func (s *ProfileServiceImpl) SetProfileImage(ctx context.Context, name, url string) (*domain.Profile, error) {
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	p, err := s.profileRepo.Update(ctx, name, func(p *domain.Profile) error {
		p.ProfileImage = url
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("set profile image: %w", err))
	}
	return p, nil
}

// SetBackground stores the cover image URL, provisioning the profile when new.
func (s *ProfileServiceImpl) SetBackground(ctx context.Context, name, url string) (*domain.Profile, error) {
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	p, err := s.profileRepo.Update(ctx, name, func(p *domain.Profile) error {
		p.Background = url
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("set background: %w", err))
	}
	return p, nil
}

// ListProfiles returns all profiles.
func (s *ProfileServiceImpl) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	list, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list profiles: %w", err))
	}
	return list, nil
}

// SaveAbout overlays data onto the user's about section.
func (s *ProfileServiceImpl) SaveAbout(ctx context.Context, name string, data map[string]any) error {
	if name == "" {
		return apperror.Validation("name is required")
	}
	if err := s.aboutRepo.Merge(ctx, name, data); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("save about: %w", err))
	}
	return nil
}

// GetAbout returns the user's about section, empty map when none.
func (s *ProfileServiceImpl) GetAbout(ctx context.Context, name string) (map[string]any, error) {
	data, err := s.aboutRepo.Get(ctx, name)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get about: %w", err))
	}
	return data, nil
}

// GetAllAbout returns every user's about section.
func (s *ProfileServiceImpl) GetAllAbout(ctx context.Context) (map[string]map[string]any, error) {
	data, err := s.aboutRepo.GetAll(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get all about: %w", err))
	}
	return data, nil
}

// SaveBio stores the user's one-line bio.
func (s *ProfileServiceImpl) SaveBio(ctx context.Context, name, bio string) error {
	if name == "" {
		return apperror.Validation("name is required")
	}
	if err := s.bioRepo.Set(ctx, name, bio); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("save bio: %w", err))
	}
	return nil
}

// GetBio returns the user's bio, empty when none.
func (s *ProfileServiceImpl) GetBio(ctx context.Context, name string) (string, error) {
	bio, err := s.bioRepo.Get(ctx, name)
	if err != nil {
		return "", apperror.ErrPersistence(fmt.Errorf("get bio: %w", err))
	}
	return bio, nil
}

// GetAllBios returns every user's bio.
func (s *ProfileServiceImpl) GetAllBios(ctx context.Context) (map[string]string, error) {
	bios, err := s.bioRepo.GetAll(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get all bios: %w", err))
	}
	return bios, nil
}
