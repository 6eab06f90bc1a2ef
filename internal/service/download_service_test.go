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
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/internal/core/ports/mocks"
	"cnc-fabbook/pkg/apperror"
)

type downloadTestDeps struct {
	svc    *DownloadServiceImpl
	txRepo *mocks.MockTransactionRepository
	files  *mocks.MockFileStore
	grants *mocks.MockGrantStore
	ctrl   *gomock.Controller
}

func setupDownloadService(t *testing.T, singleUse bool) *downloadTestDeps {
	ctrl := gomock.NewController(t)
	d := &downloadTestDeps{
		txRepo: mocks.NewMockTransactionRepository(ctrl),
		files:  mocks.NewMockFileStore(ctrl),
		grants: mocks.NewMockGrantStore(ctrl),
		ctrl:   ctrl,
	}
	d.svc = NewDownloadService(d.txRepo, d.files, d.grants, 5*time.Minute, singleUse, zerolog.Nop())
	return d
}

func downloadReq() ports.DownloadRequest {
	return ports.DownloadRequest{
		Filename: "dxf-1700000000000-bracket.dxf",
		Buyer:    "alice",
		Seller:   "bob",
		Amount:   decimal.NewFromInt(25),
		FileType: "dxf",
	}
}

func paymentTx(id int64, age time.Duration) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		Type:      domain.TransactionTypeFilePayment,
		Buyer:     "alice",
		Seller:    "bob",
		Amount:    decimal.NewFromInt(25),
		FileType:  "dxf",
		Filename:  "dxf-1700000000000-bracket.dxf",
		Timestamp: time.Now().UTC().Add(-age),
		Status:    domain.TransactionStatusCompleted,
	}
}

func TestDownloadService_Authorize(t *testing.T) {
	d := setupDownloadService(t, false)
	defer d.ctrl.Finish()

	d.txRepo.EXPECT().List(gomock.Any()).
		Return([]domain.Transaction{paymentTx(1001, time.Minute)}, nil)
	d.files.EXPECT().Path("dxf-1700000000000-bracket.dxf").
		Return("/data/uploads/dxf-1700000000000-bracket.dxf", nil)

	grant, err := d.svc.Authorize(context.Background(), downloadReq())
	require.NoError(t, err)

	assert.Equal(t, int64(1001), grant.TransactionID)
	assert.Equal(t, "/data/uploads/dxf-1700000000000-bracket.dxf", grant.Path)
	assert.Equal(t, "application/dxf", grant.ContentType)
}

func TestDownloadService_Authorize_ExpiredWindow(t *testing.T) {
	d := setupDownloadService(t, false)
	defer d.ctrl.Finish()

	d.txRepo.EXPECT().List(gomock.Any()).
		Return([]domain.Transaction{paymentTx(1001, 6*time.Minute)}, nil)

	_, err := d.svc.Authorize(context.Background(), downloadReq())

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestDownloadService_Authorize_WrongParties(t *testing.T) {
	d := setupDownloadService(t, false)
	defer d.ctrl.Finish()

	tx := paymentTx(1001, time.Minute)
	tx.Buyer = "mallory"
	d.txRepo.EXPECT().List(gomock.Any()).Return([]domain.Transaction{tx}, nil)

	_, err := d.svc.Authorize(context.Background(), downloadReq())

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestDownloadService_Authorize_AmountMismatch(t *testing.T) {
	d := setupDownloadService(t, false)
	defer d.ctrl.Finish()

	tx := paymentTx(1001, time.Minute)
	tx.Amount = decimal.NewFromInt(10)
	d.txRepo.EXPECT().List(gomock.Any()).Return([]domain.Transaction{tx}, nil)

	_, err := d.svc.Authorize(context.Background(), downloadReq())

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestDownloadService_Authorize_SingleUse(t *testing.T) {
	d := setupDownloadService(t, true)
	defer d.ctrl.Finish()

	d.txRepo.EXPECT().List(gomock.Any()).
		Return([]domain.Transaction{paymentTx(1001, time.Minute)}, nil)
	d.grants.EXPECT().Consume(gomock.Any(), int64(1001), 5*time.Minute).Return(true, nil)
	d.files.EXPECT().Path("dxf-1700000000000-bracket.dxf").
		Return("/data/uploads/dxf-1700000000000-bracket.dxf", nil)

	grant, err := d.svc.Authorize(context.Background(), downloadReq())
	require.NoError(t, err)
	assert.Equal(t, int64(1001), grant.TransactionID)
}

func TestDownloadService_Authorize_SingleUse_AlreadyConsumed(t *testing.T) {
	d := setupDownloadService(t, true)
	defer d.ctrl.Finish()

	d.txRepo.EXPECT().List(gomock.Any()).
		Return([]domain.Transaction{paymentTx(1001, time.Minute)}, nil)
	d.grants.EXPECT().Consume(gomock.Any(), int64(1001), 5*time.Minute).Return(false, nil)

	_, err := d.svc.Authorize(context.Background(), downloadReq())

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestDownloadService_Authorize_MissingFields(t *testing.T) {
	d := setupDownloadService(t, false)
	defer d.ctrl.Finish()

	req := downloadReq()
	req.Buyer = ""

	_, err := d.svc.Authorize(context.Background(), req)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/dxf", contentTypeFor("part.dxf"))
	assert.Equal(t, "application/3d", contentTypeFor("model.stl"))
	assert.Equal(t, "application/gcode", contentTypeFor("job.gcode"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob.bin"))
}
