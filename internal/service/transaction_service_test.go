package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports/mocks"
	"cnc-fabbook/pkg/apperror"
)

type transactionTestDeps struct {
	svc    *TransactionServiceImpl
	txRepo *mocks.MockTransactionRepository
	ctrl   *gomock.Controller
}

func setupTransactionService(t *testing.T) *transactionTestDeps {
	ctrl := gomock.NewController(t)
	d := &transactionTestDeps{
		txRepo: mocks.NewMockTransactionRepository(ctrl),
		ctrl:   ctrl,
	}
	d.svc = NewTransactionService(d.txRepo, zerolog.Nop())
	return d
}

func TestTransactionService_Record_FillsDefaults(t *testing.T) {
	d := setupTransactionService(t)
	defer d.ctrl.Finish()

	d.txRepo.EXPECT().Prepend(gomock.Any(), gomock.Any()).Return(nil)

	tx, err := d.svc.Record(context.Background(), &domain.Transaction{
		Type:     domain.TransactionTypeDeposit,
		UserName: "alice",
		Amount:   decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.NotZero(t, tx.ID)
	assert.False(t, tx.Timestamp.IsZero())
	assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
}

func TestTransactionService_Record_KeepsCallerFields(t *testing.T) {
	d := setupTransactionService(t)
	defer d.ctrl.Finish()

	d.txRepo.EXPECT().Prepend(gomock.Any(), gomock.Any()).Return(nil)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tx, err := d.svc.Record(context.Background(), &domain.Transaction{
		ID:        777,
		Type:      domain.TransactionTypeWithdraw,
		UserName:  "alice",
		Amount:    decimal.NewFromInt(20),
		Timestamp: ts,
		Status:    domain.TransactionStatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(777), tx.ID)
	assert.Equal(t, ts, tx.Timestamp)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)
}

func TestTransactionService_Record_NonPositiveAmount(t *testing.T) {
	d := setupTransactionService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Record(context.Background(), &domain.Transaction{
		Type:   domain.TransactionTypeDeposit,
		Amount: decimal.Zero,
	})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestTransactionService_ListByUser(t *testing.T) {
	d := setupTransactionService(t)
	defer d.ctrl.Finish()

	want := []domain.Transaction{{ID: 2}, {ID: 1}}
	d.txRepo.EXPECT().ListByUser(gomock.Any(), "alice").Return(want, nil)

	got, err := d.svc.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTransactionService_SetStatus_Unknown(t *testing.T) {
	d := setupTransactionService(t)
	defer d.ctrl.Finish()

	d.txRepo.EXPECT().
		UpdateStatus(gomock.Any(), int64(999), domain.TransactionStatusFailed).
		Return(nil, nil)

	_, err := d.svc.SetStatus(context.Background(), 999, domain.TransactionStatusFailed)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "REQ_001", appErr.Code)
}

func TestTransactionService_SetStatus_Invalid(t *testing.T) {
	d := setupTransactionService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SetStatus(context.Background(), 1, "done")

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}
