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

// SettlementServiceImpl implements ports.SettlementService: the file-purchase
// flow that moves funds buyer -> seller and records the authorization
// artifact the download gate consults.
type SettlementServiceImpl struct {
	ledger ports.LedgerService
	txRepo ports.TransactionRepository
	log    zerolog.Logger

	idMu     sync.Mutex
	lastTxID int64
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(ledger ports.LedgerService, txRepo ports.TransactionRepository, log zerolog.Logger) *SettlementServiceImpl {
	return &SettlementServiceImpl{ledger: ledger, txRepo: txRepo, log: log}
}

// nextTxID returns the current time in milliseconds, bumped past the previous
// id so two settlements in the same millisecond still get distinct ids.
func (s *SettlementServiceImpl) nextTxID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastTxID {
		id = s.lastTxID + 1
	}
	s.lastTxID = id
	return id
}

// Settle runs a file purchase: validates, transfers buyer -> seller in one
// durable write, then records a completed file_payment transaction. The
// transaction is only written after both balances are durable.
func (s *SettlementServiceImpl) Settle(ctx context.Context, req ports.SettlementRequest) (*ports.SettlementResult, error) {
	if req.Buyer == "" || req.Seller == "" {
		return nil, apperror.Validation("buyer and seller are required")
	}
	if req.Buyer == req.Seller {
		return nil, apperror.Validation("buyer and seller must differ")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("Amount must be greater than zero")
	}

	buyerBal, sellerBal, err := s.ledger.Transfer(ctx, req.Buyer, req.Seller, req.Amount)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:        s.nextTxID(),
		Type:      domain.TransactionTypeFilePayment,
		Buyer:     req.Buyer,
		Seller:    req.Seller,
		Amount:    req.Amount,
		FileType:  req.FileType,
		Filename:  req.Filename,
		Timestamp: time.Now().UTC(),
		Status:    domain.TransactionStatusCompleted,
	}
	if err := s.txRepo.Prepend(ctx, tx); err != nil {
		// Funds have moved; losing the log entry would orphan the purchase.
		return nil, apperror.ErrPersistence(fmt.Errorf("record settlement: %w", err))
	}

	s.log.Info().
		Int64("transaction_id", tx.ID).
		Str("buyer", req.Buyer).
		Str("seller", req.Seller).
		Str("amount", req.Amount.String()).
		Str("filename", req.Filename).
		Msg("file payment settled")

	return &ports.SettlementResult{
		TransactionID: tx.ID,
		BuyerBalance:  buyerBal,
		SellerBalance: sellerBal,
		FileURL:       req.FileURL,
	}, nil
}
