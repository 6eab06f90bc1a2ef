package jsonstore

import (
	"context"

	"cnc-fabbook/internal/core/domain"

	"github.com/google/uuid"
)

// FundRequestRepo implements ports.FundRequestRepository over a JSON
// collection. Deposits and withdraws each get their own instance.
type FundRequestRepo struct {
	col *Collection[domain.FundRequest]
}

// NewFundRequestRepo creates a repository backed by dir/<name>.json, e.g.
// "depositRequests" or "withdrawRequests".
func NewFundRequestRepo(dir, name string) *FundRequestRepo {
	return &FundRequestRepo{col: NewCollection[domain.FundRequest](dir, name)}
}

// Append stores a new request.
func (r *FundRequestRepo) Append(ctx context.Context, req *domain.FundRequest) error {
	return r.col.Mutate(func(items []domain.FundRequest) ([]domain.FundRequest, error) {
		return append(items, *req), nil
	})
}

// List returns all requests in submission order.
func (r *FundRequestRepo) List(ctx context.Context) ([]domain.FundRequest, error) {
	return r.col.Load()
}

// GetByID returns nil, nil when no request has that id.
func (r *FundRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FundRequest, error) {
	items, err := r.col.Load()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			req := items[i]
			return &req, nil
		}
	}
	return nil, nil
}

// Update applies fn to the stored request under the collection lock.
// Returns nil, nil when the id is unknown.
func (r *FundRequestRepo) Update(ctx context.Context, id uuid.UUID, fn func(req *domain.FundRequest) error) (*domain.FundRequest, error) {
	var result *domain.FundRequest
	err := r.col.Mutate(func(items []domain.FundRequest) ([]domain.FundRequest, error) {
		for i := range items {
			if items[i].ID == id {
				if err := fn(&items[i]); err != nil {
					return nil, err
				}
				req := items[i]
				result = &req
				return items, nil
			}
		}
		// Unknown id: persist nothing, signal via nil result.
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
