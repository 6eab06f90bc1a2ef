package jsonstore

import (
	"context"

	"cnc-fabbook/internal/core/domain"
)

// TransactionRepo implements ports.TransactionRepository over a JSON
// collection. The newest transaction sits at the front of the file.
type TransactionRepo struct {
	col *Collection[domain.Transaction]
}

// NewTransactionRepo creates a repository backed by dir/transactions.json.
func NewTransactionRepo(dir string) *TransactionRepo {
	return &TransactionRepo{col: NewCollection[domain.Transaction](dir, "transactions")}
}

// Prepend inserts a transaction at the front of the log.
func (r *TransactionRepo) Prepend(ctx context.Context, t *domain.Transaction) error {
	return r.col.Mutate(func(items []domain.Transaction) ([]domain.Transaction, error) {
		return append([]domain.Transaction{*t}, items...), nil
	})
}

// List returns the full log, newest first.
func (r *TransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	return r.col.Load()
}

// ListByUser returns transactions whose userName, buyer or seller matches.
func (r *TransactionRepo) ListByUser(ctx context.Context, userName string) ([]domain.Transaction, error) {
	items, err := r.col.Load()
	if err != nil {
		return nil, err
	}
	var out []domain.Transaction
	for _, t := range items {
		if t.UserName == userName || t.Buyer == userName || t.Seller == userName {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpdateStatus overwrites the status of the identified transaction.
// Returns nil, nil when the id is unknown.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) (*domain.Transaction, error) {
	var result *domain.Transaction
	err := r.col.Mutate(func(items []domain.Transaction) ([]domain.Transaction, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].Status = status
				t := items[i]
				result = &t
				break
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
