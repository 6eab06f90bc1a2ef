package jsonstore

import (
	"context"

	"cnc-fabbook/internal/core/domain"
)

// PostRepo implements ports.PostRepository over dir/posts.json.
type PostRepo struct {
	col *Collection[domain.Post]
}

func NewPostRepo(dir string) *PostRepo {
	return &PostRepo{col: NewCollection[domain.Post](dir, "posts")}
}

func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	return r.col.Load()
}

func (r *PostRepo) Append(ctx context.Context, p *domain.Post) error {
	return r.col.Mutate(func(items []domain.Post) ([]domain.Post, error) {
		return append(items, *p), nil
	})
}

func (r *PostRepo) Prepend(ctx context.Context, p *domain.Post) error {
	return r.col.Mutate(func(items []domain.Post) ([]domain.Post, error) {
		return append([]domain.Post{*p}, items...), nil
	})
}

// Update applies fn to the post addressed by postID. Returns nil, nil when no
// post matches.
func (r *PostRepo) Update(ctx context.Context, postID string, fn func(p *domain.Post) error) (*domain.Post, error) {
	var result *domain.Post
	err := r.col.Mutate(func(items []domain.Post) ([]domain.Post, error) {
		for i := range items {
			if items[i].PostID() == postID {
				if err := fn(&items[i]); err != nil {
					return nil, err
				}
				p := items[i]
				result = &p
				return items, nil
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostRepo) DeleteAll(ctx context.Context) error {
	return r.col.Save(nil)
}

// StoryRepo implements ports.StoryRepository over dir/stories.json.
type StoryRepo struct {
	col *Collection[domain.Story]
}

func NewStoryRepo(dir string) *StoryRepo {
	return &StoryRepo{col: NewCollection[domain.Story](dir, "stories")}
}

func (r *StoryRepo) List(ctx context.Context) ([]domain.Story, error) {
	return r.col.Load()
}

func (r *StoryRepo) Append(ctx context.Context, s *domain.Story) error {
	return r.col.Mutate(func(items []domain.Story) ([]domain.Story, error) {
		return append(items, *s), nil
	})
}

func (r *StoryRepo) ReplaceAll(ctx context.Context, stories []domain.Story) error {
	return r.col.Save(stories)
}

func (r *StoryRepo) DeleteAll(ctx context.Context) error {
	return r.col.Save(nil)
}

// CommentRepo implements ports.CommentRepository over dir/comments.json, a
// JSON object mapping post id to its comment list.
type CommentRepo struct {
	doc *Document[map[string][]domain.Comment, []domain.Comment]
}

func NewCommentRepo(dir string) *CommentRepo {
	return &CommentRepo{doc: NewDocument[map[string][]domain.Comment](dir, "comments")}
}

func (r *CommentRepo) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	m, err := r.doc.Load()
	if err != nil {
		return nil, err
	}
	return m[postID], nil
}

func (r *CommentRepo) Append(ctx context.Context, c *domain.Comment) error {
	return r.doc.Mutate(func(m map[string][]domain.Comment) error {
		m[c.PostID] = append(m[c.PostID], *c)
		return nil
	})
}

func (r *CommentRepo) DeleteAll(ctx context.Context) error {
	return r.doc.Mutate(func(m map[string][]domain.Comment) error {
		for k := range m {
			delete(m, k)
		}
		return nil
	})
}

// AboutRepo implements ports.AboutRepository over dir/about-data.json.
type AboutRepo struct {
	doc *Document[map[string]map[string]any, map[string]any]
}

func NewAboutRepo(dir string) *AboutRepo {
	return &AboutRepo{doc: NewDocument[map[string]map[string]any](dir, "about-data")}
}

func (r *AboutRepo) GetAll(ctx context.Context) (map[string]map[string]any, error) {
	return r.doc.Load()
}

func (r *AboutRepo) Get(ctx context.Context, userName string) (map[string]any, error) {
	m, err := r.doc.Load()
	if err != nil {
		return nil, err
	}
	if m[userName] == nil {
		return map[string]any{}, nil
	}
	return m[userName], nil
}

// Merge overlays data onto the user's existing about section.
func (r *AboutRepo) Merge(ctx context.Context, userName string, data map[string]any) error {
	return r.doc.Mutate(func(m map[string]map[string]any) error {
		if m[userName] == nil {
			m[userName] = map[string]any{}
		}
		for k, v := range data {
			m[userName][k] = v
		}
		return nil
	})
}

// BioRepo implements ports.BioRepository over dir/bio-data.json.
type BioRepo struct {
	doc *Document[map[string]string, string]
}

func NewBioRepo(dir string) *BioRepo {
	return &BioRepo{doc: NewDocument[map[string]string](dir, "bio-data")}
}

func (r *BioRepo) GetAll(ctx context.Context) (map[string]string, error) {
	return r.doc.Load()
}

func (r *BioRepo) Get(ctx context.Context, userName string) (string, error) {
	m, err := r.doc.Load()
	if err != nil {
		return "", err
	}
	return m[userName], nil
}

func (r *BioRepo) Set(ctx context.Context, userName, bio string) error {
	return r.doc.Mutate(func(m map[string]string) error {
		m[userName] = bio
		return nil
	})
}
