package ports

import (
	"context"
	"io"
	"time"

	"cnc-fabbook/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Core services ---

// LedgerService owns account balances. All balance mutations in the system go
// through Credit, Debit or Transfer; balances never go negative.
type LedgerService interface {
	// GetProfile fails with NotFound when the profile does not exist.
	GetProfile(ctx context.Context, name string) (*domain.Profile, error)
	// GetBalance returns zero for an unknown account (not an error).
	GetBalance(ctx context.Context, name string) (decimal.Decimal, error)
	// Credit adds amount, auto-provisioning the account when absent.
	Credit(ctx context.Context, name string, amount decimal.Decimal) (decimal.Decimal, error)
	// Debit subtracts amount, failing with InsufficientBalance when
	// amount exceeds the current balance.
	Debit(ctx context.Context, name string, amount decimal.Decimal) (decimal.Decimal, error)
	// Transfer debits from and credits to in one durable write, failing with
	// InsufficientBalance without any visible partial effect. Both accounts
	// are auto-provisioned when absent.
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (fromBalance, toBalance decimal.Decimal, err error)
}

// SubmitFundRequest carries a new deposit or withdraw submission.
type SubmitFundRequest struct {
	UserName string
	Amount   decimal.Decimal
	Method   string
	Details  string
}

// FundRequestService runs the deposit/withdraw review workflow.
// pending -> approved applies the ledger effect atomically with the status
// transition, exactly once; pending -> rejected has no ledger effect.
type FundRequestService interface {
	Submit(ctx context.Context, kind domain.FundRequestKind, req SubmitFundRequest) (*domain.FundRequest, error)
	List(ctx context.Context, kind domain.FundRequestKind) ([]domain.FundRequest, error)
	Approve(ctx context.Context, kind domain.FundRequestKind, id uuid.UUID) (*domain.FundRequest, error)
	Reject(ctx context.Context, kind domain.FundRequestKind, id uuid.UUID) (*domain.FundRequest, error)
	// SetStatus delegates to Approve or Reject; any other status is a
	// validation error.
	SetStatus(ctx context.Context, kind domain.FundRequestKind, id uuid.UUID, status domain.FundRequestStatus) (*domain.FundRequest, error)
}

// SettlementRequest carries a file purchase between two users.
type SettlementRequest struct {
	Buyer    string
	Seller   string
	Amount   decimal.Decimal
	FileType string
	Filename string
	FileURL  string
}

// SettlementResult is the outcome of a completed settlement.
type SettlementResult struct {
	TransactionID int64
	BuyerBalance  decimal.Decimal
	SellerBalance decimal.Decimal
	FileURL       string
}

// SettlementService is the only primitive that moves funds between two
// accounts. It records a completed file_payment transaction after, and only
// after, both sides of the transfer are durable.
type SettlementService interface {
	Settle(ctx context.Context, req SettlementRequest) (*SettlementResult, error)
}

// DownloadRequest identifies the purchase a download claims to be covered by.
type DownloadRequest struct {
	Filename string
	Buyer    string
	Seller   string
	Amount   decimal.Decimal
	FileType string
}

// DownloadGrant is a verified, streamable download.
type DownloadGrant struct {
	TransactionID int64
	Path          string
	ContentType   string
}

// DownloadService gates file retrieval on a matching unexpired file_payment
// transaction. Deny reasons are not distinguished to the caller.
type DownloadService interface {
	Authorize(ctx context.Context, req DownloadRequest) (*DownloadGrant, error)
}

// TransactionService exposes the raw transaction log.
type TransactionService interface {
	Record(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByUser(ctx context.Context, userName string) ([]domain.Transaction, error)
	SetStatus(ctx context.Context, id int64, status domain.TransactionStatus) (*domain.Transaction, error)
}

// --- Account services ---

// CompleteRegistrationRequest carries the final signup step.
type CompleteRegistrationRequest struct {
	FirstName   string
	LastName    string
	Month       string
	Day         string
	Year        string
	PhoneNumber string
	Password    string
}

// RegistrationStats summarizes the signup log.
type RegistrationStats struct {
	Total     int
	Completed int
	Pending   int
}

// AuthService handles the stepwise registration flow, login and password
// reset.
type AuthService interface {
	SaveName(ctx context.Context, firstName, lastName string) (*domain.Registration, error)
	SaveDOB(ctx context.Context, month, day, year string) (*domain.Registration, error)
	SaveAccount(ctx context.Context, phone, password string) (*domain.Registration, error)
	CompleteRegistration(ctx context.Context, req CompleteRegistrationRequest) (*domain.Registration, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	// Login returns the completed registration, a session token and its expiry.
	Login(ctx context.Context, phone, password string) (*domain.Registration, string, time.Time, error)
	ListRegistrations(ctx context.Context) ([]domain.Registration, error)
	ListCompleted(ctx context.Context) ([]domain.Registration, error)
	GetCompleted(ctx context.Context, phone string) (*domain.Registration, error)
	Stats(ctx context.Context) (*RegistrationStats, error)
	RequestPasswordReset(ctx context.Context, phone string) error
	VerifyResetCode(ctx context.Context, phone, code string) (*domain.Registration, error)
	ResetPassword(ctx context.Context, phone, code, newPassword string) error
}

// ProfileService manages the non-balance side of profiles.
type ProfileService interface {
	SetProfileImage(ctx context.Context, name, url string) (*domain.Profile, error)
	SetBackground(ctx context.Context, name, url string) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	SaveAbout(ctx context.Context, name string, data map[string]any) error
	GetAbout(ctx context.Context, name string) (map[string]any, error)
	GetAllAbout(ctx context.Context) (map[string]map[string]any, error)
	SaveBio(ctx context.Context, name, bio string) error
	GetBio(ctx context.Context, name string) (string, error)
	GetAllBios(ctx context.Context) (map[string]string, error)
}

// FeedService manages posts, stories, reactions and comments.
type FeedService interface {
	AddStory(ctx context.Context, s *domain.Story) error
	ListStories(ctx context.Context) ([]domain.Story, error)
	ClearStories(ctx context.Context) error
	AddPost(ctx context.Context, p *domain.Post) error
	AddDXFPost(ctx context.Context, p *domain.Post) error
	ListPosts(ctx context.Context) ([]domain.Post, error)
	ClearPosts(ctx context.Context) error
	React(ctx context.Context, postID, user, emoji string) (*domain.Post, error)
	Like(ctx context.Context, postID, action string) (int, error)
	IncrementCommentCount(ctx context.Context, postID string) (int, error)
	Share(ctx context.Context, postID string) (int, error)
	AddComment(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
	ClearComments(ctx context.Context) error
}

// --- Supporting ports ---

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles session token operations.
type TokenService interface {
	Generate(phoneNumber string) (string, time.Time, error)
	Validate(tokenString string) (string, error) // returns phone number
}

// SMSSender delivers a text message. The default implementation only logs.
type SMSSender interface {
	Send(ctx context.Context, toNumber, message string) error
}

// ResetCodeStore keeps pending password-reset codes with expiry.
type ResetCodeStore interface {
	Set(ctx context.Context, phone string, payload []byte, ttl time.Duration) error
	// Get returns nil, nil when no code is pending (or it expired).
	Get(ctx context.Context, phone string) ([]byte, error)
	Delete(ctx context.Context, phone string) error
}

// GrantStore marks purchase transactions consumed when downloads are
// single-use.
type GrantStore interface {
	// Consume returns true the first time a transaction id is seen within ttl,
	// false on every later call.
	Consume(ctx context.Context, transactionID int64, ttl time.Duration) (bool, error)
}

// StoredFile describes an upload saved to the file store.
type StoredFile struct {
	Filename string // stored (sanitized, timestamped) name
	URL      string // public URL
	Size     int64
}

// FileInfo describes a stored file.
type FileInfo struct {
	Filename  string
	Size      int64
	URL       string
	CreatedAt time.Time
}

// FileStore persists uploaded assets. The local-disk implementation is the
// default; object-storage gateways sit behind this same seam.
type FileStore interface {
	Save(ctx context.Context, originalName, prefix string, r io.Reader) (*StoredFile, error)
	// Path fails with FileNotFound when the file is absent.
	Path(filename string) (string, error)
	Open(filename string) (io.ReadCloser, error)
	Stat(filename string) (*FileInfo, error)
	URL(filename string) string
}

// HealthChecker verifies a dependency is reachable.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
