package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"

	"github.com/rs/zerolog"
)

// TransactionServiceImpl implements ports.TransactionService.
type TransactionServiceImpl struct {
	txRepo ports.TransactionRepository
	log    zerolog.Logger

	idMu     sync.Mutex
	lastTxID int64
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(txRepo ports.TransactionRepository, log zerolog.Logger) *TransactionServiceImpl {
	return &TransactionServiceImpl{txRepo: txRepo, log: log}
}

// Record appends a transaction, assigning a time-based id when the caller did
// not set one.
func (s *TransactionServiceImpl) Record(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if !t.Amount.IsPositive() {
		return nil, apperror.Validation("Amount must be greater than zero")
	}
	if t.ID == 0 {
		t.ID = s.nextTxID()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = domain.TransactionStatusCompleted
	}

	if err := s.txRepo.Prepend(ctx, t); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("record transaction: %w", err))
	}

	s.log.Info().
		Int64("transaction_id", t.ID).
		Str("type", string(t.Type)).
		Str("amount", t.Amount.String()).
		Msg("transaction recorded")

	return t, nil
}

func (s *TransactionServiceImpl) nextTxID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastTxID {
		id = s.lastTxID + 1
	}
	s.lastTxID = id
	return id
}

// List returns the full transaction log, newest first.
func (s *TransactionServiceImpl) List(ctx context.Context) ([]domain.Transaction, error) {
	list, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list transactions: %w", err))
	}
	return list, nil
}

// ListByUser returns transactions the user took part in, newest first.
func (s *TransactionServiceImpl) ListByUser(ctx context.Context, userName string) ([]domain.Transaction, error) {
	list, err := s.txRepo.ListByUser(ctx, userName)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list user transactions: %w", err))
	}
	return list, nil
}

// SetStatus updates a transaction's status, failing with NotFound for an
// unknown id.
func (s *TransactionServiceImpl) SetStatus(ctx context.Context, id int64, status domain.TransactionStatus) (*domain.Transaction, error) {
	switch status {
	case domain.TransactionStatusPending, domain.TransactionStatusCompleted, domain.TransactionStatusFailed:
	default:
		return nil, apperror.Validation("Invalid transaction status")
	}

	t, err := s.txRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("update transaction status: %w", err))
	}
	if t == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}
	return t, nil
}
