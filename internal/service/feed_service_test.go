package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports/mocks"
	"cnc-fabbook/pkg/apperror"
)

type feedTestDeps struct {
	svc         *FeedServiceImpl
	postRepo    *mocks.MockPostRepository
	storyRepo   *mocks.MockStoryRepository
	commentRepo *mocks.MockCommentRepository
	ctrl        *gomock.Controller
}

func setupFeedService(t *testing.T) *feedTestDeps {
	ctrl := gomock.NewController(t)
	d := &feedTestDeps{
		postRepo:    mocks.NewMockPostRepository(ctrl),
		storyRepo:   mocks.NewMockStoryRepository(ctrl),
		commentRepo: mocks.NewMockCommentRepository(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewFeedService(d.postRepo, d.storyRepo, d.commentRepo, 12*time.Hour, zerolog.Nop())
	return d
}

// applyPostUpdate wires a mock Update call so the service's mutation closure
// runs against the given post.
func applyPostUpdate(m *mocks.MockPostRepository, postID string, post *domain.Post) {
	m.EXPECT().
		Update(gomock.Any(), postID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, fn func(*domain.Post) error) (*domain.Post, error) {
			if post == nil {
				return nil, nil
			}
			if err := fn(post); err != nil {
				return nil, err
			}
			return post, nil
		})
}

func TestFeedService_AddPost_CountersStartAtOne(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	d.postRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	p := &domain.Post{URL: "/uploads/1700-shot.png", User: "alice", Type: "image/png"}
	require.NoError(t, d.svc.AddPost(context.Background(), p))

	assert.Equal(t, 1, p.Like)
	assert.Equal(t, 1, p.Comment)
	assert.Equal(t, 1, p.Share)
	assert.NotZero(t, p.Time)
	assert.NotNil(t, p.Reactions)
}

func TestFeedService_AddDXFPost_Prepends(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	d.postRepo.EXPECT().Prepend(gomock.Any(), gomock.Any()).Return(nil)

	p := &domain.Post{URL: "/uploads/dxf-1700-bracket.dxf", User: "bob", Price: "25"}
	require.NoError(t, d.svc.AddDXFPost(context.Background(), p))

	assert.Equal(t, "dxf", p.Type)
}

func TestFeedService_Like(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	post := &domain.Post{Time: 1700, Like: 3}
	applyPostUpdate(d.postRepo, "post-1700", post)

	likes, err := d.svc.Like(context.Background(), "post-1700", "like")
	require.NoError(t, err)
	assert.Equal(t, 4, likes)
}

func TestFeedService_Unlike_FloorsAtOne(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	post := &domain.Post{Time: 1700, Like: 1}
	applyPostUpdate(d.postRepo, "post-1700", post)

	likes, err := d.svc.Like(context.Background(), "post-1700", "unlike")
	require.NoError(t, err)
	assert.Equal(t, 1, likes)
}

func TestFeedService_Like_UnknownPost(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	applyPostUpdate(d.postRepo, "post-9999", nil)

	_, err := d.svc.Like(context.Background(), "post-9999", "like")

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "REQ_001", appErr.Code)
}

func TestFeedService_React_ReplacesPreviousReaction(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	post := &domain.Post{
		Time: 1700,
		Like: 2,
		Reactions: []domain.Reaction{
			{User: "alice", Emoji: "👍"},
			{User: "bob", Emoji: "🔥"},
		},
	}
	applyPostUpdate(d.postRepo, "post-1700", post)

	updated, err := d.svc.React(context.Background(), "post-1700", "alice", "❤️")
	require.NoError(t, err)

	require.Len(t, updated.Reactions, 2)
	assert.Equal(t, domain.Reaction{User: "bob", Emoji: "🔥"}, updated.Reactions[0])
	assert.Equal(t, domain.Reaction{User: "alice", Emoji: "❤️"}, updated.Reactions[1])
	assert.Equal(t, 2, updated.Like)
}

func TestFeedService_React_EmptyEmojiRemoves(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	post := &domain.Post{
		Time:      1700,
		Like:      1,
		Reactions: []domain.Reaction{{User: "alice", Emoji: "👍"}},
	}
	applyPostUpdate(d.postRepo, "post-1700", post)

	updated, err := d.svc.React(context.Background(), "post-1700", "alice", "")
	require.NoError(t, err)

	assert.Empty(t, updated.Reactions)
	assert.Equal(t, 0, updated.Like)
}

func TestFeedService_ListStories_PrunesExpired(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	now := time.Now()
	fresh := domain.Story{URL: "/uploads/s1.png", Time: now.Add(-time.Hour).UnixMilli(), UserName: "alice"}
	stale := domain.Story{URL: "/uploads/s2.png", Time: now.Add(-13 * time.Hour).UnixMilli(), UserName: "bob"}

	d.storyRepo.EXPECT().List(gomock.Any()).Return([]domain.Story{fresh, stale}, nil)
	d.storyRepo.EXPECT().ReplaceAll(gomock.Any(), []domain.Story{fresh}).Return(nil)

	got, err := d.svc.ListStories(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].UserName)
}

func TestFeedService_ListStories_NoPruneWhenAllFresh(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	fresh := domain.Story{URL: "/uploads/s1.png", Time: time.Now().UnixMilli(), UserName: "alice"}
	d.storyRepo.EXPECT().List(gomock.Any()).Return([]domain.Story{fresh}, nil)

	got, err := d.svc.ListStories(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFeedService_AddComment_BumpsCounter(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	post := &domain.Post{Time: 1700, Comment: 1}
	d.commentRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	applyPostUpdate(d.postRepo, "post-1700", post)

	c, err := d.svc.AddComment(context.Background(), &domain.Comment{
		PostID: "post-1700",
		Author: "alice",
		Text:   "nice toolpath",
	})
	require.NoError(t, err)

	assert.NotZero(t, c.ID)
	assert.Equal(t, "default-profile.png", c.ProfileImage)
	assert.Equal(t, 2, post.Comment)
}

func TestFeedService_AddComment_MissingFields(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.AddComment(context.Background(), &domain.Comment{PostID: "post-1700"})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestFeedService_ListComments_EmptyNotNil(t *testing.T) {
	d := setupFeedService(t)
	defer d.ctrl.Finish()

	d.commentRepo.EXPECT().ListByPost(gomock.Any(), "post-1700").Return(nil, nil)

	got, err := d.svc.ListComments(context.Background(), "post-1700")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
