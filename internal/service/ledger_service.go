package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService over the profile
// repository. The repository's Update/UpdatePair closures make each balance
// mutation atomic with respect to concurrent mutations.
type LedgerServiceImpl struct {
	profileRepo ports.ProfileRepository
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(profileRepo ports.ProfileRepository, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{profileRepo: profileRepo, log: log}
}

// GetProfile fetches a profile, failing with NotFound when absent.
func (s *LedgerServiceImpl) GetProfile(ctx context.Context, name string) (*domain.Profile, error) {
	p, err := s.profileRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get profile: %w", err))
	}
	if p == nil {
		return nil, apperror.ErrNotFound("User")
	}
	return p, nil
}

// GetBalance returns the account balance, zero for an unknown account.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, name string) (decimal.Decimal, error) {
	p, err := s.profileRepo.GetByName(ctx, name)
	if err != nil {
		return decimal.Zero, apperror.ErrPersistence(fmt.Errorf("get balance: %w", err))
	}
	if p == nil {
		return decimal.Zero, nil
	}
	return p.Balance, nil
}

// Credit adds amount to the account, provisioning it when absent.
func (s *LedgerServiceImpl) Credit(ctx context.Context, name string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperror.Validation("Amount must not be negative")
	}
	p, err := s.profileRepo.Update(ctx, name, func(p *domain.Profile) error {
		p.Balance = p.Balance.Add(amount)
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return decimal.Zero, persistenceErr(err, "credit")
	}

	s.log.Info().
		Str("user", name).
		Str("amount", amount.String()).
		Str("balance", p.Balance.String()).
		Msg("ledger credit")

	return p.Balance, nil
}

// Debit subtracts amount from the account, failing with InsufficientBalance
// when amount exceeds the current balance.
func (s *LedgerServiceImpl) Debit(ctx context.Context, name string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperror.Validation("Amount must not be negative")
	}
	p, err := s.profileRepo.Update(ctx, name, func(p *domain.Profile) error {
		if p.Balance.LessThan(amount) {
			return apperror.ErrInsufficientBalance()
		}
		p.Balance = p.Balance.Sub(amount)
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return decimal.Zero, persistenceErr(err, "debit")
	}

	s.log.Info().
		Str("user", name).
		Str("amount", amount.String()).
		Str("balance", p.Balance.String()).
		Msg("ledger debit")

	return p.Balance, nil
}

// Transfer debits from and credits to in one durable write. On
// InsufficientBalance neither account changes.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, decimal.Zero, apperror.Validation("Amount must not be negative")
	}
	if from == to {
		return decimal.Zero, decimal.Zero, apperror.Validation("Cannot transfer to the same account")
	}

	pa, pb, err := s.profileRepo.UpdatePair(ctx, from, to, func(pa, pb *domain.Profile) error {
		if pa.Balance.LessThan(amount) {
			return apperror.ErrInsufficientBalance()
		}
		now := time.Now().UTC()
		pa.Balance = pa.Balance.Sub(amount)
		pb.Balance = pb.Balance.Add(amount)
		pa.UpdatedAt = now
		pb.UpdatedAt = now
		return nil
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, persistenceErr(err, "transfer")
	}

	s.log.Info().
		Str("from", from).
		Str("to", to).
		Str("amount", amount.String()).
		Msg("ledger transfer")

	return pa.Balance, pb.Balance, nil
}

// persistenceErr passes AppErrors through and wraps anything else as a
// storage failure.
func persistenceErr(err error, op string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrPersistence(fmt.Errorf("%s: %w", op, err))
}
