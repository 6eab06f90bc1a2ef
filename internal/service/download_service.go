package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"

	"github.com/rs/zerolog"
)

// DownloadServiceImpl implements ports.DownloadService: the gate that only
// releases a purchased file against a matching, unexpired file_payment
// transaction.
type DownloadServiceImpl struct {
	txRepo    ports.TransactionRepository
	files     ports.FileStore
	grants    ports.GrantStore // nil unless purchases are single-use
	window    time.Duration
	singleUse bool
	log       zerolog.Logger
}

// NewDownloadService creates a new DownloadServiceImpl. grants may be nil
// when singleUse is false.
func NewDownloadService(
	txRepo ports.TransactionRepository,
	files ports.FileStore,
	grants ports.GrantStore,
	window time.Duration,
	singleUse bool,
	log zerolog.Logger,
) *DownloadServiceImpl {
	return &DownloadServiceImpl{
		txRepo:    txRepo,
		files:     files,
		grants:    grants,
		window:    window,
		singleUse: singleUse,
		log:       log,
	}
}

// Authorize verifies the claimed purchase and resolves the file. Every deny
// reason collapses to PaymentVerificationFailed so a caller cannot probe which
// check failed; a missing file is the one distinguishable outcome.
func (s *DownloadServiceImpl) Authorize(ctx context.Context, req ports.DownloadRequest) (*ports.DownloadGrant, error) {
	if req.Filename == "" || req.Buyer == "" || req.Seller == "" {
		return nil, apperror.Validation("filename, buyer and seller are required")
	}

	transactions, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list transactions: %w", err))
	}

	now := time.Now().UTC()
	for i := range transactions {
		t := &transactions[i]
		if !t.AuthorizesDownload(req.Buyer, req.Seller, req.Amount, req.FileType, now, s.window) {
			continue
		}

		if s.singleUse && s.grants != nil {
			ok, err := s.grants.Consume(ctx, t.ID, s.window)
			if err != nil {
				return nil, apperror.ErrPersistence(fmt.Errorf("consume grant: %w", err))
			}
			if !ok {
				continue
			}
		}

		path, err := s.files.Path(req.Filename)
		if err != nil {
			return nil, err
		}

		s.log.Info().
			Int64("transaction_id", t.ID).
			Str("buyer", req.Buyer).
			Str("filename", req.Filename).
			Msg("download authorized")

		return &ports.DownloadGrant{
			TransactionID: t.ID,
			Path:          path,
			ContentType:   contentTypeFor(req.Filename),
		}, nil
	}

	s.log.Warn().
		Str("buyer", req.Buyer).
		Str("seller", req.Seller).
		Str("filename", req.Filename).
		Msg("download denied: no matching payment")

	return nil, apperror.ErrPaymentVerificationFailed()
}

func contentTypeFor(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".dxf":
		return "application/dxf"
	case ".stl", ".obj", ".3ds":
		return "application/3d"
	case ".gd", ".gcode":
		return "application/gcode"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}
