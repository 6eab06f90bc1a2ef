package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cnc-fabbook/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ProfileRepo implements ports.ProfileRepository. Update and UpdatePair use a
// transaction with SELECT ... FOR UPDATE so the read-modify-write sequence is
// atomic across instances.
type ProfileRepo struct {
	pool Pool
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(pool Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `name, profile_image, background, balance, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(&p.Name, &p.ProfileImage, &p.Background, &p.Balance, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByName fetches a profile by name. Returns nil, nil when absent.
func (r *ProfileRepo) GetByName(ctx context.Context, name string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE name = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by name: %w", err)
	}
	return p, nil
}

// List fetches all profiles ordered by name.
func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p := domain.Profile{}
		if err := rows.Scan(&p.Name, &p.ProfileImage, &p.Background, &p.Balance, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// lockOrProvision fetches the profile with a row lock, inserting a zero-balance
// row first when the name is new. Must be called within a transaction.
func (r *ProfileRepo) lockOrProvision(ctx context.Context, tx pgx.Tx, name string) (*domain.Profile, error) {
	insert := `INSERT INTO profiles (name, profile_image, background, balance, updated_at)
		VALUES ($1, '', '', 0, $2) ON CONFLICT (name) DO NOTHING`
	if _, err := tx.Exec(ctx, insert, name, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("provision profile: %w", err)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE name = $1 FOR UPDATE`
	p, err := scanProfile(tx.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("lock profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) save(ctx context.Context, tx pgx.Tx, p *domain.Profile) error {
	query := `UPDATE profiles SET profile_image = $1, background = $2, balance = $3, updated_at = $4
		WHERE name = $5`
	if _, err := tx.Exec(ctx, query, p.ProfileImage, p.Background, p.Balance, p.UpdatedAt, p.Name); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// Update applies fn to the named profile inside a transaction, provisioning a
// zero-balance profile when absent. Returning an error from fn rolls back.
func (r *ProfileRepo) Update(ctx context.Context, name string, fn func(p *domain.Profile) error) (*domain.Profile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := r.lockOrProvision(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := r.save(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

// UpdatePair applies fn to two profiles in one transaction: both mutations
// commit or neither does. Rows are locked in name order so two concurrent
// settlements over the same pair cannot deadlock.
func (r *ProfileRepo) UpdatePair(ctx context.Context, a, b string, fn func(pa, pb *domain.Profile) error) (*domain.Profile, *domain.Profile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	first, second := a, b
	if b < a {
		first, second = b, a
	}
	locked := map[string]*domain.Profile{}
	for _, name := range []string{first, second} {
		p, err := r.lockOrProvision(ctx, tx, name)
		if err != nil {
			return nil, nil, err
		}
		locked[name] = p
	}

	pa, pb := locked[a], locked[b]
	if err := fn(pa, pb); err != nil {
		return nil, nil, err
	}
	for _, p := range []*domain.Profile{pa, pb} {
		if err := r.save(ctx, tx, p); err != nil {
			return nil, nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return pa, pb, nil
}
