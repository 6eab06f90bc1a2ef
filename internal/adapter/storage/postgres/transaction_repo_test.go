package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cnc-fabbook/internal/core/domain"
)

func transactionColumnNames() []string {
	return []string{"id", "type", "buyer", "seller", "user_name", "amount", "file_type", "filename", "ts", "status"}
}

func newTestTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:        1700000000123,
		Type:      domain.TransactionTypeFilePayment,
		Buyer:     "alice",
		Seller:    "bob",
		Amount:    decimal.NewFromInt(25),
		FileType:  "dxf",
		Filename:  "dxf-1700000000000-bracket.dxf",
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
		Status:    domain.TransactionStatusCompleted,
	}
}

func transactionRow(tr *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumnNames()).AddRow(
		tr.ID, tr.Type, tr.Buyer, tr.Seller, tr.UserName,
		tr.Amount, tr.FileType, tr.Filename, tr.Timestamp, tr.Status,
	)
}

func TestTransactionRepo_Prepend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	tr := newTestTransaction()

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(tr.ID, tr.Type, tr.Buyer, tr.Seller, tr.UserName,
			tr.Amount, tr.FileType, tr.Filename, tr.Timestamp, tr.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Prepend(context.Background(), tr)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List_NewestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	tr := newTestTransaction()

	mock.ExpectQuery("SELECT (.+) FROM transactions ORDER BY id DESC").
		WillReturnRows(transactionRow(tr))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tr.ID, list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	tr := newTestTransaction()

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("alice").
		WillReturnRows(transactionRow(tr))

	list, err := repo.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Buyer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	tr := newTestTransaction()
	tr.Status = domain.TransactionStatusFailed

	mock.ExpectQuery("UPDATE transactions SET status").
		WithArgs(domain.TransactionStatusFailed, tr.ID).
		WillReturnRows(transactionRow(tr))

	got, err := repo.UpdateStatus(context.Background(), tr.ID, domain.TransactionStatusFailed)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.TransactionStatusFailed, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus_UnknownID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("UPDATE transactions SET status").
		WithArgs(domain.TransactionStatusFailed, int64(42)).
		WillReturnRows(pgxmock.NewRows(transactionColumnNames()))

	got, err := repo.UpdateStatus(context.Background(), 42, domain.TransactionStatusFailed)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
