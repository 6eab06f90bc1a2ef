package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FundRequestServiceImpl implements ports.FundRequestService. A mutex
// serializes reviews so two concurrent approvals of the same request cannot
// both apply the ledger effect.
type FundRequestServiceImpl struct {
	depositRepo  ports.FundRequestRepository
	withdrawRepo ports.FundRequestRepository
	ledger       ports.LedgerService
	transactions ports.TransactionService
	log          zerolog.Logger

	reviewMu sync.Mutex
}

// NewFundRequestService creates a new FundRequestServiceImpl.
func NewFundRequestService(
	depositRepo ports.FundRequestRepository,
	withdrawRepo ports.FundRequestRepository,
	ledger ports.LedgerService,
	transactions ports.TransactionService,
	log zerolog.Logger,
) *FundRequestServiceImpl {
	return &FundRequestServiceImpl{
		depositRepo:  depositRepo,
		withdrawRepo: withdrawRepo,
		ledger:       ledger,
		transactions: transactions,
		log:          log,
	}
}

func (s *FundRequestServiceImpl) repo(kind domain.FundRequestKind) ports.FundRequestRepository {
	if kind == domain.FundRequestKindWithdraw {
		return s.withdrawRepo
	}
	return s.depositRepo
}

// Submit records a new pending request. It has no ledger effect.
func (s *FundRequestServiceImpl) Submit(ctx context.Context, kind domain.FundRequestKind, req ports.SubmitFundRequest) (*domain.FundRequest, error) {
	if req.UserName == "" {
		return nil, apperror.Validation("userName is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("Amount must be greater than zero")
	}

	fr := &domain.FundRequest{
		ID:          uuid.New(),
		Kind:        kind,
		UserName:    req.UserName,
		Amount:      req.Amount,
		Status:      domain.FundRequestStatusPending,
		Method:      req.Method,
		Details:     req.Details,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.repo(kind).Append(ctx, fr); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("append %s request: %w", kind, err))
	}

	s.log.Info().
		Str("kind", string(kind)).
		Str("id", fr.ID.String()).
		Str("user", fr.UserName).
		Str("amount", fr.Amount.String()).
		Msg("fund request submitted")

	return fr, nil
}

// List returns all requests of the kind, oldest first.
func (s *FundRequestServiceImpl) List(ctx context.Context, kind domain.FundRequestKind) ([]domain.FundRequest, error) {
	list, err := s.repo(kind).List(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list %s requests: %w", kind, err))
	}
	return list, nil
}

// Approve moves a pending request to approved and applies its ledger effect
// exactly once: deposits credit the user, withdrawals debit the user. A
// withdraw approval fails with InsufficientBalance and leaves the request
// pending when the user cannot cover it.
func (s *FundRequestServiceImpl) Approve(ctx context.Context, kind domain.FundRequestKind, id uuid.UUID) (*domain.FundRequest, error) {
	s.reviewMu.Lock()
	defer s.reviewMu.Unlock()

	fr, err := s.repo(kind).GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get %s request: %w", kind, err))
	}
	if fr == nil {
		return nil, apperror.ErrNotFound("Request")
	}
	if fr.IsTerminal() {
		return nil, apperror.Validation("Request has already been processed")
	}

	// Ledger effect first. If it fails the request stays pending.
	if kind == domain.FundRequestKindWithdraw {
		if _, err := s.ledger.Debit(ctx, fr.UserName, fr.Amount); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.ledger.Credit(ctx, fr.UserName, fr.Amount); err != nil {
			return nil, err
		}
	}

	updated, err := s.setTerminal(ctx, kind, id, domain.FundRequestStatusApproved)
	if err != nil {
		return nil, err
	}

	s.recordTransaction(ctx, updated)

	s.log.Info().
		Str("kind", string(kind)).
		Str("id", id.String()).
		Str("user", updated.UserName).
		Str("amount", updated.Amount.String()).
		Msg("fund request approved")

	return updated, nil
}

// Reject moves a pending request to rejected. No ledger effect.
func (s *FundRequestServiceImpl) Reject(ctx context.Context, kind domain.FundRequestKind, id uuid.UUID) (*domain.FundRequest, error) {
	s.reviewMu.Lock()
	defer s.reviewMu.Unlock()

	fr, err := s.repo(kind).GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get %s request: %w", kind, err))
	}
	if fr == nil {
		return nil, apperror.ErrNotFound("Request")
	}
	if fr.IsTerminal() {
		return nil, apperror.Validation("Request has already been processed")
	}

	updated, err := s.setTerminal(ctx, kind, id, domain.FundRequestStatusRejected)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("kind", string(kind)).
		Str("id", id.String()).
		Msg("fund request rejected")

	return updated, nil
}

// SetStatus routes an admin status update to Approve or Reject.
func (s *FundRequestServiceImpl) SetStatus(ctx context.Context, kind domain.FundRequestKind, id uuid.UUID, status domain.FundRequestStatus) (*domain.FundRequest, error) {
	switch status {
	case domain.FundRequestStatusApproved:
		return s.Approve(ctx, kind, id)
	case domain.FundRequestStatusRejected:
		return s.Reject(ctx, kind, id)
	default:
		return nil, apperror.Validation("Status must be approved or rejected")
	}
}

func (s *FundRequestServiceImpl) setTerminal(ctx context.Context, kind domain.FundRequestKind, id uuid.UUID, status domain.FundRequestStatus) (*domain.FundRequest, error) {
	updated, err := s.repo(kind).Update(ctx, id, func(r *domain.FundRequest) error {
		now := time.Now().UTC()
		r.Status = status
		r.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("update %s request: %w", kind, err))
	}
	if updated == nil {
		return nil, apperror.ErrNotFound("Request")
	}
	return updated, nil
}

// recordTransaction appends an approved request to the transaction log. A
// failure here does not undo the approval; it is logged and dropped.
func (s *FundRequestServiceImpl) recordTransaction(ctx context.Context, fr *domain.FundRequest) {
	txType := domain.TransactionTypeDeposit
	if fr.Kind == domain.FundRequestKindWithdraw {
		txType = domain.TransactionTypeWithdraw
	}
	_, err := s.transactions.Record(ctx, &domain.Transaction{
		Type:      txType,
		UserName:  fr.UserName,
		Amount:    fr.Amount,
		Timestamp: time.Now().UTC(),
		Status:    domain.TransactionStatusCompleted,
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("id", fr.ID.String()).
			Msg("failed to record approved fund request in transaction log")
	}
}
