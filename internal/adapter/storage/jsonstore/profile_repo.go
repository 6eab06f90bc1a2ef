package jsonstore

import (
	"context"
	"time"

	"cnc-fabbook/internal/core/domain"
)

// ProfileRepo implements ports.ProfileRepository over a JSON collection.
type ProfileRepo struct {
	col *Collection[domain.Profile]
}

// NewProfileRepo creates a profile repository backed by dir/profiles.json.
func NewProfileRepo(dir string) *ProfileRepo {
	return &ProfileRepo{col: NewCollection[domain.Profile](dir, "profiles")}
}

// GetByName returns nil, nil when the profile does not exist.
func (r *ProfileRepo) GetByName(ctx context.Context, name string) (*domain.Profile, error) {
	profiles, err := r.col.Load()
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].Name == name {
			p := profiles[i]
			return &p, nil
		}
	}
	return nil, nil
}

// List returns the full profile collection.
func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	return r.col.Load()
}

// Update applies fn to the named profile under the collection lock,
// auto-provisioning a zero-balance profile when absent.
func (r *ProfileRepo) Update(ctx context.Context, name string, fn func(p *domain.Profile) error) (*domain.Profile, error) {
	var result domain.Profile
	err := r.col.Mutate(func(profiles []domain.Profile) ([]domain.Profile, error) {
		idx := indexOf(profiles, name)
		if idx < 0 {
			profiles = append(profiles, *domain.NewProfile(name, time.Now().UTC()))
			idx = len(profiles) - 1
		}
		if err := fn(&profiles[idx]); err != nil {
			return nil, err
		}
		result = profiles[idx]
		return profiles, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdatePair applies fn to two profiles and persists both in one write.
func (r *ProfileRepo) UpdatePair(ctx context.Context, a, b string, fn func(pa, pb *domain.Profile) error) (*domain.Profile, *domain.Profile, error) {
	var ra, rb domain.Profile
	err := r.col.Mutate(func(profiles []domain.Profile) ([]domain.Profile, error) {
		now := time.Now().UTC()
		ia := indexOf(profiles, a)
		if ia < 0 {
			profiles = append(profiles, *domain.NewProfile(a, now))
			ia = len(profiles) - 1
		}
		ib := indexOf(profiles, b)
		if ib < 0 {
			profiles = append(profiles, *domain.NewProfile(b, now))
			ib = len(profiles) - 1
		}
		if err := fn(&profiles[ia], &profiles[ib]); err != nil {
			return nil, err
		}
		ra, rb = profiles[ia], profiles[ib]
		return profiles, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &ra, &rb, nil
}

func indexOf(profiles []domain.Profile, name string) int {
	for i := range profiles {
		if profiles[i].Name == name {
			return i
		}
	}
	return -1
}
