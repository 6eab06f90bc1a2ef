package domain

import (
	"fmt"
	"time"
)

// Post is a feed entry: an image, a video, or a purchasable DXF listing.
// Time doubles as the public post identifier ("post-<millis>").
type Post struct {
	URL          string     `json:"url"`
	Time         int64      `json:"time"` // milliseconds since epoch
	User         string     `json:"user"`
	Name         string     `json:"name"`
	ProfileImage string     `json:"profileImage"`
	Caption      string     `json:"caption"`
	Type         string     `json:"type"` // mime type, or "dxf"
	Category     string     `json:"category,omitempty"`
	Tags         string     `json:"tags,omitempty"`
	Privacy      string     `json:"privacy,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	Price        string     `json:"price,omitempty"`
	Like         int        `json:"like"`
	Comment      int        `json:"comment"`
	Share        int        `json:"share"`
	Reactions    []Reaction `json:"reactions"`
}

// PostID returns the identifier clients use to address the post.
func (p *Post) PostID() string {
	return fmt.Sprintf("post-%d", p.Time)
}

// Reaction is one user's emoji on a post. A user has at most one.
type Reaction struct {
	User  string `json:"user"`
	Emoji string `json:"emoji"`
}

// Story is a short-lived feed entry; it expires StoryTTL after Time.
type Story struct {
	URL          string `json:"url"`
	Time         int64  `json:"time"` // milliseconds since epoch
	UserName     string `json:"userName"`
	ProfileImage string `json:"profileImage"`
	Type         string `json:"type"`
}

// Expired reports whether the story is older than ttl at now.
func (s *Story) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(time.UnixMilli(s.Time)) >= ttl
}

// Comment is a stored comment on a post.
type Comment struct {
	ID           int64     `json:"id"`
	PostID       string    `json:"postId"`
	Author       string    `json:"author"`
	Text         string    `json:"text"`
	ProfileImage string    `json:"profileImage"`
	Timestamp    time.Time `json:"timestamp"`
}
