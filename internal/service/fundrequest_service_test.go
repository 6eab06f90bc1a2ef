package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/internal/core/ports/mocks"
	"cnc-fabbook/pkg/apperror"
)

type fundRequestTestDeps struct {
	svc          *FundRequestServiceImpl
	depositRepo  *mocks.MockFundRequestRepository
	withdrawRepo *mocks.MockFundRequestRepository
	ledger       *mocks.MockLedgerService
	transactions *mocks.MockTransactionService
	ctrl         *gomock.Controller
}

func setupFundRequestService(t *testing.T) *fundRequestTestDeps {
	ctrl := gomock.NewController(t)
	d := &fundRequestTestDeps{
		depositRepo:  mocks.NewMockFundRequestRepository(ctrl),
		withdrawRepo: mocks.NewMockFundRequestRepository(ctrl),
		ledger:       mocks.NewMockLedgerService(ctrl),
		transactions: mocks.NewMockTransactionService(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewFundRequestService(d.depositRepo, d.withdrawRepo, d.ledger, d.transactions, zerolog.Nop())
	return d
}

func pendingRequest(kind domain.FundRequestKind, amount int64) *domain.FundRequest {
	return &domain.FundRequest{
		ID:       uuid.New(),
		Kind:     kind,
		UserName: "alice",
		Amount:   decimal.NewFromInt(amount),
		Status:   domain.FundRequestStatusPending,
	}
}

func expectTerminalUpdate(repo *mocks.MockFundRequestRepository, fr *domain.FundRequest) {
	repo.EXPECT().
		Update(gomock.Any(), fr.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, fn func(*domain.FundRequest) error) (*domain.FundRequest, error) {
			if err := fn(fr); err != nil {
				return nil, err
			}
			return fr, nil
		})
}

func TestFundRequestService_Submit(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	d.depositRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	fr, err := d.svc.Submit(context.Background(), domain.FundRequestKindDeposit, ports.SubmitFundRequest{
		UserName: "alice",
		Amount:   decimal.NewFromInt(40),
		Method:   "bank",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FundRequestStatusPending, fr.Status)
	assert.Equal(t, domain.FundRequestKindDeposit, fr.Kind)
	assert.NotEqual(t, uuid.Nil, fr.ID)
}

func TestFundRequestService_Submit_RejectsNonPositiveAmount(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Submit(context.Background(), domain.FundRequestKindDeposit, ports.SubmitFundRequest{
		UserName: "alice",
		Amount:   decimal.Zero,
	})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestFundRequestService_ApproveDeposit_CreditsOnce(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	fr := pendingRequest(domain.FundRequestKindDeposit, 40)
	d.depositRepo.EXPECT().GetByID(gomock.Any(), fr.ID).Return(fr, nil)
	d.ledger.EXPECT().Credit(gomock.Any(), "alice", decimal.NewFromInt(40)).Return(decimal.NewFromInt(40), nil)
	expectTerminalUpdate(d.depositRepo, fr)
	d.transactions.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil, nil)

	updated, err := d.svc.Approve(context.Background(), domain.FundRequestKindDeposit, fr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FundRequestStatusApproved, updated.Status)
	require.NotNil(t, updated.ReviewedAt)
}

func TestFundRequestService_ApproveWithdraw_DebitsUser(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	fr := pendingRequest(domain.FundRequestKindWithdraw, 25)
	d.withdrawRepo.EXPECT().GetByID(gomock.Any(), fr.ID).Return(fr, nil)
	d.ledger.EXPECT().Debit(gomock.Any(), "alice", decimal.NewFromInt(25)).Return(decimal.NewFromInt(75), nil)
	expectTerminalUpdate(d.withdrawRepo, fr)
	d.transactions.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil, nil)

	updated, err := d.svc.Approve(context.Background(), domain.FundRequestKindWithdraw, fr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FundRequestStatusApproved, updated.Status)
}

func TestFundRequestService_ApproveWithdraw_InsufficientLeavesPending(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	fr := pendingRequest(domain.FundRequestKindWithdraw, 500)
	d.withdrawRepo.EXPECT().GetByID(gomock.Any(), fr.ID).Return(fr, nil)
	d.ledger.EXPECT().
		Debit(gomock.Any(), "alice", decimal.NewFromInt(500)).
		Return(decimal.Zero, apperror.ErrInsufficientBalance())

	_, err := d.svc.Approve(context.Background(), domain.FundRequestKindWithdraw, fr.ID)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "BAL_001", appErr.Code)
	// No Update expectation: the request must stay pending.
	assert.Equal(t, domain.FundRequestStatusPending, fr.Status)
}

func TestFundRequestService_Approve_AlreadyProcessed(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	fr := pendingRequest(domain.FundRequestKindDeposit, 40)
	fr.Status = domain.FundRequestStatusApproved
	d.depositRepo.EXPECT().GetByID(gomock.Any(), fr.ID).Return(fr, nil)

	_, err := d.svc.Approve(context.Background(), domain.FundRequestKindDeposit, fr.ID)

	// Re-approval must not re-credit: ledger has no expectations.
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestFundRequestService_Approve_UnknownID(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	id := uuid.New()
	d.depositRepo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

	_, err := d.svc.Approve(context.Background(), domain.FundRequestKindDeposit, id)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "REQ_001", appErr.Code)
}

func TestFundRequestService_Reject_NoLedgerEffect(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	fr := pendingRequest(domain.FundRequestKindDeposit, 40)
	d.depositRepo.EXPECT().GetByID(gomock.Any(), fr.ID).Return(fr, nil)
	expectTerminalUpdate(d.depositRepo, fr)

	updated, err := d.svc.Reject(context.Background(), domain.FundRequestKindDeposit, fr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FundRequestStatusRejected, updated.Status)
}

func TestFundRequestService_SetStatus_InvalidStatus(t *testing.T) {
	d := setupFundRequestService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SetStatus(context.Background(), domain.FundRequestKindDeposit, uuid.New(), domain.FundRequestStatusPending)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}
