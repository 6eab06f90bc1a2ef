package postgres

import (
	"context"
	"errors"
	"fmt"

	"cnc-fabbook/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FundRequestRepo implements ports.FundRequestRepository for one request kind.
// Both kinds share the fund_requests table; the repo filters on its kind.
type FundRequestRepo struct {
	pool Pool
	kind domain.FundRequestKind
}

// NewFundRequestRepo creates a FundRequestRepo scoped to kind.
func NewFundRequestRepo(pool Pool, kind domain.FundRequestKind) *FundRequestRepo {
	return &FundRequestRepo{pool: pool, kind: kind}
}

const fundRequestColumns = `id, kind, user_name, amount, status, method, details, submitted_at, reviewed_at`

func scanFundRequest(row pgx.Row) (*domain.FundRequest, error) {
	fr := &domain.FundRequest{}
	err := row.Scan(&fr.ID, &fr.Kind, &fr.UserName, &fr.Amount, &fr.Status,
		&fr.Method, &fr.Details, &fr.SubmittedAt, &fr.ReviewedAt)
	if err != nil {
		return nil, err
	}
	return fr, nil
}

// Append inserts a new fund request.
func (r *FundRequestRepo) Append(ctx context.Context, fr *domain.FundRequest) error {
	query := `INSERT INTO fund_requests (` + fundRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		fr.ID, fr.Kind, fr.UserName, fr.Amount, fr.Status,
		fr.Method, fr.Details, fr.SubmittedAt, fr.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fund request: %w", err)
	}
	return nil
}

// List fetches all requests of this kind, oldest first.
func (r *FundRequestRepo) List(ctx context.Context) ([]domain.FundRequest, error) {
	query := `SELECT ` + fundRequestColumns + ` FROM fund_requests
		WHERE kind = $1 ORDER BY submitted_at`

	rows, err := r.pool.Query(ctx, query, r.kind)
	if err != nil {
		return nil, fmt.Errorf("list fund requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.FundRequest
	for rows.Next() {
		fr := domain.FundRequest{}
		if err := rows.Scan(&fr.ID, &fr.Kind, &fr.UserName, &fr.Amount, &fr.Status,
			&fr.Method, &fr.Details, &fr.SubmittedAt, &fr.ReviewedAt); err != nil {
			return nil, fmt.Errorf("scan fund request: %w", err)
		}
		requests = append(requests, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fund requests: %w", err)
	}
	return requests, nil
}

// GetByID fetches one request. Returns nil, nil when the id is unknown.
func (r *FundRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FundRequest, error) {
	query := `SELECT ` + fundRequestColumns + ` FROM fund_requests WHERE id = $1 AND kind = $2`

	fr, err := scanFundRequest(r.pool.QueryRow(ctx, query, id, r.kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fund request: %w", err)
	}
	return fr, nil
}

// Update applies fn to the stored request inside a transaction with a row
// lock. Returns nil, nil when the id is unknown.
func (r *FundRequestRepo) Update(ctx context.Context, id uuid.UUID, fn func(fr *domain.FundRequest) error) (*domain.FundRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + fundRequestColumns + ` FROM fund_requests
		WHERE id = $1 AND kind = $2 FOR UPDATE`
	fr, err := scanFundRequest(tx.QueryRow(ctx, query, id, r.kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock fund request: %w", err)
	}

	if err := fn(fr); err != nil {
		return nil, err
	}

	update := `UPDATE fund_requests SET status = $1, reviewed_at = $2 WHERE id = $3`
	if _, err := tx.Exec(ctx, update, fr.Status, fr.ReviewedAt, fr.ID); err != nil {
		return nil, fmt.Errorf("update fund request: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return fr, nil
}
