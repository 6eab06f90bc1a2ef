package ports

import (
	"context"

	"cnc-fabbook/internal/core/domain"

	"github.com/google/uuid"
)

// ProfileRepository persists the account collection. Update and UpdatePair run
// the mutation inside the store's critical section, so the whole
// read-modify-write-persist sequence is atomic with respect to other mutations
// on the collection. Returning an error from fn aborts without persisting.
type ProfileRepository interface {
	// GetByName returns nil, nil when the profile does not exist.
	GetByName(ctx context.Context, name string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	// Update applies fn to the named profile, auto-provisioning a zero-balance
	// profile when absent, and persists the result.
	Update(ctx context.Context, name string, fn func(p *domain.Profile) error) (*domain.Profile, error)
	// UpdatePair applies fn to two profiles and persists both in a single
	// write: either both mutations are durable or neither is.
	UpdatePair(ctx context.Context, a, b string, fn func(pa, pb *domain.Profile) error) (*domain.Profile, *domain.Profile, error)
}

// FundRequestRepository persists one kind of fund request (deposit or
// withdraw); each kind is its own collection.
type FundRequestRepository interface {
	Append(ctx context.Context, r *domain.FundRequest) error
	List(ctx context.Context) ([]domain.FundRequest, error)
	// GetByID returns nil, nil when no request has that id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FundRequest, error)
	// Update applies fn to the stored request and persists. Returns nil, nil
	// when the id is unknown.
	Update(ctx context.Context, id uuid.UUID, fn func(r *domain.FundRequest) error) (*domain.FundRequest, error)
}

// TransactionRepository persists the append-only transaction log, newest
// entry first.
type TransactionRepository interface {
	Prepend(ctx context.Context, t *domain.Transaction) error
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByUser(ctx context.Context, userName string) ([]domain.Transaction, error)
	// UpdateStatus returns domain.Transaction nil, nil when the id is unknown.
	UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) (*domain.Transaction, error)
}

// RegistrationRepository persists the append-only signup step log.
type RegistrationRepository interface {
	Append(ctx context.Context, r *domain.Registration) error
	List(ctx context.Context) ([]domain.Registration, error)
	// FindCompletedByPhone returns the latest completed registration for the
	// phone number, or nil, nil.
	FindCompletedByPhone(ctx context.Context, phone string) (*domain.Registration, error)
	ListCompleted(ctx context.Context) ([]domain.Registration, error)
	// UpdatePassword rewrites the password hash on the completed record.
	UpdatePassword(ctx context.Context, phone string, passwordHash string) error
}

// PostRepository persists the feed.
type PostRepository interface {
	List(ctx context.Context) ([]domain.Post, error)
	Append(ctx context.Context, p *domain.Post) error
	Prepend(ctx context.Context, p *domain.Post) error
	// Update applies fn to the post addressed by postID ("post-<millis>") and
	// persists. Returns nil, nil when no such post exists.
	Update(ctx context.Context, postID string, fn func(p *domain.Post) error) (*domain.Post, error)
	DeleteAll(ctx context.Context) error
}

// StoryRepository persists stories.
type StoryRepository interface {
	List(ctx context.Context) ([]domain.Story, error)
	Append(ctx context.Context, s *domain.Story) error
	ReplaceAll(ctx context.Context, stories []domain.Story) error
	DeleteAll(ctx context.Context) error
}

// CommentRepository persists comments grouped by post.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	Append(ctx context.Context, c *domain.Comment) error
	DeleteAll(ctx context.Context) error
}

// AboutRepository persists free-form about sections keyed by user name.
type AboutRepository interface {
	GetAll(ctx context.Context) (map[string]map[string]any, error)
	Get(ctx context.Context, userName string) (map[string]any, error)
	Merge(ctx context.Context, userName string, data map[string]any) error
}

// BioRepository persists one-line bios keyed by user name.
type BioRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, userName string) (string, error)
	Set(ctx context.Context, userName, bio string) error
}
