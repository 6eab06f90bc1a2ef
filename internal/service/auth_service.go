package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"

	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService: the stepwise signup log,
// login and the SMS password-reset flow.
type AuthServiceImpl struct {
	regRepo      ports.RegistrationRepository
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
	sms          ports.SMSSender
	resetCodes   ports.ResetCodeStore
	resetCodeTTL time.Duration
	log          zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	regRepo ports.RegistrationRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	sms ports.SMSSender,
	resetCodes ports.ResetCodeStore,
	resetCodeTTL time.Duration,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		regRepo:      regRepo,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
		sms:          sms,
		resetCodes:   resetCodes,
		resetCodeTTL: resetCodeTTL,
		log:          log,
	}
}

// resetPayload is what ResetCodeStore holds per phone number.
type resetPayload struct {
	Code        string `json:"code"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

func newRegistrationID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// SaveName records the name step of a signup.
func (s *AuthServiceImpl) SaveName(ctx context.Context, firstName, lastName string) (*domain.Registration, error) {
	if firstName == "" || lastName == "" {
		return nil, apperror.Validation("firstName and lastName are required")
	}
	reg := &domain.Registration{
		ID:        newRegistrationID(),
		Step:      domain.RegistrationStepName,
		FirstName: firstName,
		LastName:  lastName,
		Timestamp: time.Now().UTC(),
	}
	if err := s.regRepo.Append(ctx, reg); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("save name step: %w", err))
	}
	return reg, nil
}

// SaveDOB records the date-of-birth step of a signup.
func (s *AuthServiceImpl) SaveDOB(ctx context.Context, month, day, year string) (*domain.Registration, error) {
	if month == "" || day == "" || year == "" {
		return nil, apperror.Validation("month, day and year are required")
	}
	reg := &domain.Registration{
		ID:        newRegistrationID(),
		Step:      domain.RegistrationStepDOB,
		Month:     month,
		Day:       day,
		Year:      year,
		Timestamp: time.Now().UTC(),
	}
	if err := s.regRepo.Append(ctx, reg); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("save dob step: %w", err))
	}
	return reg, nil
}

// SaveAccount records the phone/password step. The password is stored only as
// an Argon2id hash.
func (s *AuthServiceImpl) SaveAccount(ctx context.Context, phone, password string) (*domain.Registration, error) {
	if phone == "" || password == "" {
		return nil, apperror.Validation("phoneNumber and password are required")
	}
	hash, err := s.hashSvc.Hash(password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}
	reg := &domain.Registration{
		ID:           newRegistrationID(),
		Step:         domain.RegistrationStepAccount,
		PhoneNumber:  phone,
		PasswordHash: hash,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.regRepo.Append(ctx, reg); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("save account step: %w", err))
	}
	return reg, nil
}

// CompleteRegistration records the final step, making the account usable.
func (s *AuthServiceImpl) CompleteRegistration(ctx context.Context, req ports.CompleteRegistrationRequest) (*domain.Registration, error) {
	if req.PhoneNumber == "" || req.Password == "" {
		return nil, apperror.Validation("phoneNumber and password are required")
	}
	if len(req.Password) < 6 {
		return nil, apperror.Validation("Password must be at least 6 characters long")
	}
	hash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}
	reg := &domain.Registration{
		ID:            newRegistrationID(),
		Step:          domain.RegistrationStepCompleted,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Month:         req.Month,
		Day:           req.Day,
		Year:          req.Year,
		PhoneNumber:   req.PhoneNumber,
		PasswordHash:  hash,
		AccountStatus: "completed",
		Timestamp:     time.Now().UTC(),
	}
	if err := s.regRepo.Append(ctx, reg); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("complete registration: %w", err))
	}

	s.log.Info().
		Str("phone", req.PhoneNumber).
		Str("name", reg.DisplayName()).
		Msg("registration completed")

	return reg, nil
}

// PhoneExists reports whether a completed account uses the phone number.
func (s *AuthServiceImpl) PhoneExists(ctx context.Context, phone string) (bool, error) {
	if phone == "" {
		return false, apperror.Validation("phoneNumber is required")
	}
	reg, err := s.regRepo.FindCompletedByPhone(ctx, phone)
	if err != nil {
		return false, apperror.ErrPersistence(fmt.Errorf("check phone: %w", err))
	}
	return reg != nil, nil
}

// Login verifies credentials against the latest completed registration and
// issues a session token.
func (s *AuthServiceImpl) Login(ctx context.Context, phone, password string) (*domain.Registration, string, time.Time, error) {
	if phone == "" || password == "" {
		return nil, "", time.Time{}, apperror.Validation("Phone number and password are required")
	}

	reg, err := s.regRepo.FindCompletedByPhone(ctx, phone)
	if err != nil {
		return nil, "", time.Time{}, apperror.ErrPersistence(fmt.Errorf("find account: %w", err))
	}
	if reg == nil || reg.PasswordHash == "" {
		return nil, "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hashSvc.Verify(password, reg.PasswordHash)
	if err != nil {
		return nil, "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		s.log.Warn().Str("phone", phone).Msg("login failed")
		return nil, "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(phone)
	if err != nil {
		return nil, "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.log.Info().Str("phone", phone).Str("name", reg.DisplayName()).Msg("login successful")
	return reg, token, expiresAt, nil
}

// ListRegistrations returns the raw signup log.
func (s *AuthServiceImpl) ListRegistrations(ctx context.Context) ([]domain.Registration, error) {
	list, err := s.regRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list registrations: %w", err))
	}
	return list, nil
}

// ListCompleted returns completed registrations only.
func (s *AuthServiceImpl) ListCompleted(ctx context.Context) ([]domain.Registration, error) {
	list, err := s.regRepo.ListCompleted(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list completed registrations: %w", err))
	}
	return list, nil
}

// GetCompleted returns the completed registration for the phone number,
// failing with NotFound when there is none.
func (s *AuthServiceImpl) GetCompleted(ctx context.Context, phone string) (*domain.Registration, error) {
	reg, err := s.regRepo.FindCompletedByPhone(ctx, phone)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("find account: %w", err))
	}
	if reg == nil {
		return nil, apperror.ErrNotFound("User")
	}
	return reg, nil
}

// Stats summarizes the signup log.
func (s *AuthServiceImpl) Stats(ctx context.Context) (*ports.RegistrationStats, error) {
	list, err := s.regRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list registrations: %w", err))
	}
	completed := 0
	for i := range list {
		if list[i].Step == domain.RegistrationStepCompleted {
			completed++
		}
	}
	return &ports.RegistrationStats{
		Total:     len(list),
		Completed: completed,
		Pending:   len(list) - completed,
	}, nil
}

// RequestPasswordReset generates a 6-digit code, stores it with expiry and
// sends it via SMS.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, phone string) error {
	if phone == "" {
		return apperror.Validation("Phone number is required")
	}

	reg, err := s.regRepo.FindCompletedByPhone(ctx, phone)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("find account: %w", err))
	}
	if reg == nil {
		return apperror.ErrNotFound("Account")
	}

	code, err := generateResetCode()
	if err != nil {
		return apperror.InternalError(fmt.Errorf("generate reset code: %w", err))
	}

	payload, err := json.Marshal(resetPayload{
		Code:        code,
		FirstName:   reg.FirstName,
		LastName:    reg.LastName,
		PhoneNumber: phone,
	})
	if err != nil {
		return apperror.InternalError(fmt.Errorf("encode reset payload: %w", err))
	}
	if err := s.resetCodes.Set(ctx, phone, payload, s.resetCodeTTL); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("store reset code: %w", err))
	}

	minutes := int(s.resetCodeTTL.Minutes())
	message := fmt.Sprintf(
		"CNC FB: Your password reset code is %s. Valid for %d minutes. Do not share this code with anyone.",
		code, minutes,
	)
	if err := s.sms.Send(ctx, phone, message); err != nil {
		return apperror.InternalError(fmt.Errorf("send reset sms: %w", err))
	}

	s.log.Info().Str("phone", phone).Msg("password reset code sent")
	return nil
}

// VerifyResetCode checks a pending code without consuming it.
func (s *AuthServiceImpl) VerifyResetCode(ctx context.Context, phone, code string) (*domain.Registration, error) {
	if phone == "" || code == "" {
		return nil, apperror.Validation("Phone number and code are required")
	}
	if _, err := s.loadResetPayload(ctx, phone, code); err != nil {
		return nil, err
	}
	return s.GetCompleted(ctx, phone)
}

// ResetPassword verifies the code, rewrites the password hash and consumes
// the code.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, phone, code, newPassword string) error {
	if phone == "" || code == "" || newPassword == "" {
		return apperror.Validation("Phone number, code, and new password are required")
	}
	if len(newPassword) < 6 {
		return apperror.Validation("Password must be at least 6 characters long")
	}

	if _, err := s.loadResetPayload(ctx, phone, code); err != nil {
		return err
	}

	hash, err := s.hashSvc.Hash(newPassword)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}
	if err := s.regRepo.UpdatePassword(ctx, phone, hash); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("update password: %w", err))
	}
	if err := s.resetCodes.Delete(ctx, phone); err != nil {
		s.log.Warn().Err(err).Str("phone", phone).Msg("failed to delete consumed reset code")
	}

	s.log.Info().Str("phone", phone).Msg("password reset successful")
	return nil
}

func (s *AuthServiceImpl) loadResetPayload(ctx context.Context, phone, code string) (*resetPayload, error) {
	raw, err := s.resetCodes.Get(ctx, phone)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("load reset code: %w", err))
	}
	if raw == nil {
		return nil, apperror.ErrNoResetRequest()
	}
	var payload resetPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("decode reset payload: %w", err))
	}
	if payload.Code != code {
		return nil, apperror.ErrInvalidResetCode()
	}
	return &payload, nil
}

// generateResetCode returns a random 6-digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
