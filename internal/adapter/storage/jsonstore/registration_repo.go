package jsonstore

import (
	"context"
	"fmt"

	"cnc-fabbook/internal/core/domain"
)

// RegistrationRepo implements ports.RegistrationRepository over a JSON
// collection mirroring the signup step log.
type RegistrationRepo struct {
	col *Collection[domain.Registration]
}

// NewRegistrationRepo creates a repository backed by dir/user_registrations.json.
func NewRegistrationRepo(dir string) *RegistrationRepo {
	return &RegistrationRepo{col: NewCollection[domain.Registration](dir, "user_registrations")}
}

// Append stores a new step record.
func (r *RegistrationRepo) Append(ctx context.Context, reg *domain.Registration) error {
	return r.col.Mutate(func(items []domain.Registration) ([]domain.Registration, error) {
		return append(items, *reg), nil
	})
}

// List returns the full signup log.
func (r *RegistrationRepo) List(ctx context.Context) ([]domain.Registration, error) {
	return r.col.Load()
}

// FindCompletedByPhone returns the latest completed registration for the
// phone number, or nil, nil.
func (r *RegistrationRepo) FindCompletedByPhone(ctx context.Context, phone string) (*domain.Registration, error) {
	items, err := r.col.Load()
	if err != nil {
		return nil, err
	}
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Step == domain.RegistrationStepCompleted && items[i].PhoneNumber == phone {
			reg := items[i]
			return &reg, nil
		}
	}
	return nil, nil
}

// ListCompleted returns completed registrations in submission order.
func (r *RegistrationRepo) ListCompleted(ctx context.Context) ([]domain.Registration, error) {
	items, err := r.col.Load()
	if err != nil {
		return nil, err
	}
	var out []domain.Registration
	for _, reg := range items {
		if reg.Step == domain.RegistrationStepCompleted {
			out = append(out, reg)
		}
	}
	return out, nil
}

// UpdatePassword rewrites the password hash on every completed record for the
// phone number.
func (r *RegistrationRepo) UpdatePassword(ctx context.Context, phone string, passwordHash string) error {
	found := false
	err := r.col.Mutate(func(items []domain.Registration) ([]domain.Registration, error) {
		for i := range items {
			if items[i].Step == domain.RegistrationStepCompleted && items[i].PhoneNumber == phone {
				items[i].PasswordHash = passwordHash
				found = true
			}
		}
		return items, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no completed registration for phone %s", phone)
	}
	return nil
}
