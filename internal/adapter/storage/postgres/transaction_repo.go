package postgres

import (
	"context"
	"errors"
	"fmt"

	"cnc-fabbook/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. Newest-first order
// falls out of the id (milliseconds since epoch) descending.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, type, buyer, seller, user_name, amount, file_type, filename, ts, status`

// Prepend inserts a new transaction.
func (r *TransactionRepo) Prepend(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.Type, t.Buyer, t.Seller, t.UserName,
		t.Amount, t.FileType, t.Filename, t.Timestamp, t.Status,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) query(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		if err := rows.Scan(&t.ID, &t.Type, &t.Buyer, &t.Seller, &t.UserName,
			&t.Amount, &t.FileType, &t.Filename, &t.Timestamp, &t.Status); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// List fetches all transactions, newest first.
func (r *TransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	return r.query(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY id DESC`)
}

// ListByUser fetches transactions the user took part in, newest first.
func (r *TransactionRepo) ListByUser(ctx context.Context, userName string) ([]domain.Transaction, error) {
	return r.query(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE buyer = $1 OR seller = $1 OR user_name = $1 ORDER BY id DESC`, userName)
}

// UpdateStatus sets the transaction status. Returns nil, nil when the id is
// unknown.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) (*domain.Transaction, error) {
	query := `UPDATE transactions SET status = $1 WHERE id = $2
		RETURNING ` + transactionColumns

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&t.ID, &t.Type, &t.Buyer, &t.Seller, &t.UserName,
		&t.Amount, &t.FileType, &t.Filename, &t.Timestamp, &t.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update transaction status: %w", err)
	}
	return t, nil
}
