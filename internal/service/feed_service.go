package service

import (
	"context"
	"fmt"
	"time"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"

	"github.com/rs/zerolog"
)

// FeedServiceImpl implements ports.FeedService: posts, short-lived stories,
// reactions and comments.
type FeedServiceImpl struct {
	postRepo    ports.PostRepository
	storyRepo   ports.StoryRepository
	commentRepo ports.CommentRepository
	storyTTL    time.Duration
	log         zerolog.Logger
}

// NewFeedService creates a new FeedServiceImpl.
func NewFeedService(
	postRepo ports.PostRepository,
	storyRepo ports.StoryRepository,
	commentRepo ports.CommentRepository,
	storyTTL time.Duration,
	log zerolog.Logger,
) *FeedServiceImpl {
	return &FeedServiceImpl{
		postRepo:    postRepo,
		storyRepo:   storyRepo,
		commentRepo: commentRepo,
		storyTTL:    storyTTL,
		log:         log,
	}
}

// AddStory appends a story.
func (s *FeedServiceImpl) AddStory(ctx context.Context, story *domain.Story) error {
	if story.Time == 0 {
		story.Time = time.Now().UnixMilli()
	}
	if err := s.storyRepo.Append(ctx, story); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("add story: %w", err))
	}
	return nil
}

// ListStories returns unexpired stories, pruning expired ones from storage
// when any are found.
func (s *FeedServiceImpl) ListStories(ctx context.Context) ([]domain.Story, error) {
	stories, err := s.storyRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list stories: %w", err))
	}

	now := time.Now().UTC()
	fresh := make([]domain.Story, 0, len(stories))
	for i := range stories {
		if !stories[i].Expired(now, s.storyTTL) {
			fresh = append(fresh, stories[i])
		}
	}
	if len(fresh) != len(stories) {
		if err := s.storyRepo.ReplaceAll(ctx, fresh); err != nil {
			s.log.Warn().Err(err).Msg("failed to prune expired stories")
		}
	}
	return fresh, nil
}

// ClearStories removes all stories.
func (s *FeedServiceImpl) ClearStories(ctx context.Context) error {
	if err := s.storyRepo.DeleteAll(ctx); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("clear stories: %w", err))
	}
	return nil
}

// AddPost appends a media post. Counters start at 1, matching what the feed
// clients expect.
func (s *FeedServiceImpl) AddPost(ctx context.Context, p *domain.Post) error {
	if p.Time == 0 {
		p.Time = time.Now().UnixMilli()
	}
	if p.Like == 0 {
		p.Like = 1
	}
	if p.Comment == 0 {
		p.Comment = 1
	}
	if p.Share == 0 {
		p.Share = 1
	}
	if p.Reactions == nil {
		p.Reactions = []domain.Reaction{}
	}
	if err := s.postRepo.Append(ctx, p); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("add post: %w", err))
	}
	return nil
}

// AddDXFPost prepends a purchasable DXF listing so it shows first in the feed.
func (s *FeedServiceImpl) AddDXFPost(ctx context.Context, p *domain.Post) error {
	if p.Time == 0 {
		p.Time = time.Now().UnixMilli()
	}
	p.Type = "dxf"
	if p.Reactions == nil {
		p.Reactions = []domain.Reaction{}
	}
	if err := s.postRepo.Prepend(ctx, p); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("add dxf post: %w", err))
	}
	return nil
}

// ListPosts returns the feed.
func (s *FeedServiceImpl) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list posts: %w", err))
	}
	return posts, nil
}

// ClearPosts removes all posts.
func (s *FeedServiceImpl) ClearPosts(ctx context.Context) error {
	if err := s.postRepo.DeleteAll(ctx); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("clear posts: %w", err))
	}
	return nil
}

// React replaces the user's previous reaction with emoji (or removes it when
// emoji is empty) and syncs the like count to the reaction count.
func (s *FeedServiceImpl) React(ctx context.Context, postID, user, emoji string) (*domain.Post, error) {
	if user == "" {
		return nil, apperror.Validation("User required")
	}
	post, err := s.postRepo.Update(ctx, postID, func(p *domain.Post) error {
		kept := p.Reactions[:0]
		for _, r := range p.Reactions {
			if r.User != user {
				kept = append(kept, r)
			}
		}
		p.Reactions = kept
		if emoji != "" {
			p.Reactions = append(p.Reactions, domain.Reaction{User: user, Emoji: emoji})
		}
		p.Like = len(p.Reactions)
		return nil
	})
	if err != nil {
		return nil, persistenceErr(err, "react")
	}
	if post == nil {
		return nil, apperror.ErrNotFound("Post")
	}
	return post, nil
}

// Like bumps or drops the like counter; it never goes below 1.
func (s *FeedServiceImpl) Like(ctx context.Context, postID, action string) (int, error) {
	post, err := s.postRepo.Update(ctx, postID, func(p *domain.Post) error {
		switch action {
		case "like":
			p.Like++
		case "unlike":
			if p.Like > 1 {
				p.Like--
			}
		}
		return nil
	})
	if err != nil {
		return 0, persistenceErr(err, "like")
	}
	if post == nil {
		return 0, apperror.ErrNotFound("Post")
	}
	return post.Like, nil
}

// IncrementCommentCount bumps the post's comment counter.
func (s *FeedServiceImpl) IncrementCommentCount(ctx context.Context, postID string) (int, error) {
	post, err := s.postRepo.Update(ctx, postID, func(p *domain.Post) error {
		p.Comment++
		return nil
	})
	if err != nil {
		return 0, persistenceErr(err, "comment count")
	}
	if post == nil {
		return 0, apperror.ErrNotFound("Post")
	}
	return post.Comment, nil
}

// Share bumps the post's share counter.
func (s *FeedServiceImpl) Share(ctx context.Context, postID string) (int, error) {
	post, err := s.postRepo.Update(ctx, postID, func(p *domain.Post) error {
		p.Share++
		return nil
	})
	if err != nil {
		return 0, persistenceErr(err, "share")
	}
	if post == nil {
		return 0, apperror.ErrNotFound("Post")
	}
	return post.Share, nil
}

// AddComment stores a comment and bumps the post's comment counter when the
// post exists.
func (s *FeedServiceImpl) AddComment(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	if c.PostID == "" || c.Author == "" || c.Text == "" {
		return nil, apperror.Validation("Missing required fields")
	}
	if c.ID == 0 {
		c.ID = time.Now().UnixMilli()
	}
	if c.ProfileImage == "" {
		c.ProfileImage = "default-profile.png"
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}

	if err := s.commentRepo.Append(ctx, c); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("add comment: %w", err))
	}

	// Comments on deleted posts are kept; only the counter update is skipped.
	if _, err := s.postRepo.Update(ctx, c.PostID, func(p *domain.Post) error {
		p.Comment++
		return nil
	}); err != nil {
		s.log.Warn().Err(err).Str("post_id", c.PostID).Msg("failed to bump comment count")
	}

	return c, nil
}

// ListComments returns the comments on a post, oldest first.
func (s *FeedServiceImpl) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list comments: %w", err))
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// ClearComments removes all comments.
func (s *FeedServiceImpl) ClearComments(ctx context.Context) error {
	if err := s.commentRepo.DeleteAll(ctx); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("clear comments: %w", err))
	}
	return nil
}
