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

type ledgerTestDeps struct {
	svc         *LedgerServiceImpl
	profileRepo *mocks.MockProfileRepository
	ctrl        *gomock.Controller
}

func setupLedgerService(t *testing.T) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		profileRepo: mocks.NewMockProfileRepository(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewLedgerService(d.profileRepo, zerolog.Nop())
	return d
}

// applyUpdate runs the service's closure against a seeded profile, the way
// the real repositories do inside their critical section.
func applyUpdate(p *domain.Profile) func(context.Context, string, func(*domain.Profile) error) (*domain.Profile, error) {
	return func(_ context.Context, _ string, fn func(*domain.Profile) error) (*domain.Profile, error) {
		if err := fn(p); err != nil {
			return nil, err
		}
		return p, nil
	}
}

func TestLedgerService_GetProfile_NotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	d.profileRepo.EXPECT().GetByName(gomock.Any(), "ghost").Return(nil, nil)

	_, err := d.svc.GetProfile(context.Background(), "ghost")

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "REQ_001", appErr.Code)
}

func TestLedgerService_GetBalance_UnknownIsZero(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	d.profileRepo.EXPECT().GetByName(gomock.Any(), "new-user").Return(nil, nil)

	bal, err := d.svc.GetBalance(context.Background(), "new-user")
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestLedgerService_Credit(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	p := &domain.Profile{Name: "alice", Balance: decimal.NewFromInt(10), UpdatedAt: time.Now()}
	d.profileRepo.EXPECT().
		Update(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(applyUpdate(p))

	bal, err := d.svc.Credit(context.Background(), "alice", decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(25)))
}

func TestLedgerService_Credit_NegativeAmount(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Credit(context.Background(), "alice", decimal.NewFromInt(-1))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestLedgerService_Debit(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	p := &domain.Profile{Name: "alice", Balance: decimal.NewFromInt(50)}
	d.profileRepo.EXPECT().
		Update(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(applyUpdate(p))

	bal, err := d.svc.Debit(context.Background(), "alice", decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(30)))
}

func TestLedgerService_Debit_InsufficientBalance(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	p := &domain.Profile{Name: "alice", Balance: decimal.NewFromInt(5)}
	d.profileRepo.EXPECT().
		Update(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(applyUpdate(p))

	_, err := d.svc.Debit(context.Background(), "alice", decimal.NewFromInt(20))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "BAL_001", appErr.Code)
	// Balance untouched when the closure aborts.
	assert.True(t, p.Balance.Equal(decimal.NewFromInt(5)))
}

func TestLedgerService_Transfer(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	from := &domain.Profile{Name: "buyer", Balance: decimal.NewFromInt(100)}
	to := &domain.Profile{Name: "seller", Balance: decimal.Zero}
	d.profileRepo.EXPECT().
		UpdatePair(gomock.Any(), "buyer", "seller", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, fn func(pa, pb *domain.Profile) error) (*domain.Profile, *domain.Profile, error) {
			if err := fn(from, to); err != nil {
				return nil, nil, err
			}
			return from, to, nil
		})

	fromBal, toBal, err := d.svc.Transfer(context.Background(), "buyer", "seller", decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, fromBal.Equal(decimal.NewFromInt(70)))
	assert.True(t, toBal.Equal(decimal.NewFromInt(30)))
}

func TestLedgerService_Transfer_InsufficientBalance(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	from := &domain.Profile{Name: "buyer", Balance: decimal.NewFromInt(10)}
	to := &domain.Profile{Name: "seller", Balance: decimal.Zero}
	d.profileRepo.EXPECT().
		UpdatePair(gomock.Any(), "buyer", "seller", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, fn func(pa, pb *domain.Profile) error) (*domain.Profile, *domain.Profile, error) {
			if err := fn(from, to); err != nil {
				return nil, nil, err
			}
			return from, to, nil
		})

	_, _, err := d.svc.Transfer(context.Background(), "buyer", "seller", decimal.NewFromInt(30))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "BAL_001", appErr.Code)
	assert.True(t, from.Balance.Equal(decimal.NewFromInt(10)))
	assert.True(t, to.Balance.IsZero())
}

func TestLedgerService_Transfer_SameAccount(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	_, _, err := d.svc.Transfer(context.Background(), "alice", "alice", decimal.NewFromInt(5))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}
