package handler

import (
	"net/http"
	"strings"
	"time"

	"cnc-fabbook/internal/adapter/http/dto"
	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"
	"cnc-fabbook/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultProfileImage = "default-profile.png"

// FeedHandler manages posts, stories, reactions and comments.
type FeedHandler struct {
	feedSvc ports.FeedService
	files   ports.FileStore
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedSvc ports.FeedService, files ports.FileStore) *FeedHandler {
	return &FeedHandler{feedSvc: feedSvc, files: files}
}

// UploadPost handles POST /post. Only image and video uploads are accepted;
// DXF listings go through the dedicated endpoint.
func (h *FeedHandler) UploadPost(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, apperror.Validation("No file uploaded"))
		return
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mediaType, "image/") && !strings.HasPrefix(mediaType, "video/") {
		response.Error(c, apperror.Validation("Only image and video files are allowed!"))
		return
	}

	stored, err := h.files.Save(c.Request.Context(), header.Filename, "posts", file)
	if err != nil {
		response.Error(c, err)
		return
	}

	user := formOr(c, "user", "Anonymous")
	post := &domain.Post{
		URL:          stored.URL,
		User:         user,
		Name:         user,
		ProfileImage: formOr(c, "profileImage", defaultProfileImage),
		Caption:      c.PostForm("caption"),
		Type:         mediaType,
	}
	if err := h.feedSvc.AddPost(c.Request.Context(), post); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, post)
}

// ListPosts handles GET /posts.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	posts, err := h.feedSvc.ListPosts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, posts)
}

// ClearPosts handles DELETE /posts.
func (h *FeedHandler) ClearPosts(c *gin.Context) {
	if err := h.feedSvc.ClearPosts(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "All posts deleted.")
}

// UploadStory handles POST /upload.
func (h *FeedHandler) UploadStory(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, apperror.Validation("No file uploaded"))
		return
	}
	defer file.Close()

	stored, err := h.files.Save(c.Request.Context(), header.Filename, "stories", file)
	if err != nil {
		response.Error(c, err)
		return
	}
	story := &domain.Story{
		URL:          stored.URL,
		Time:         time.Now().UnixMilli(),
		UserName:     formOr(c, "userName", "Anonymous"),
		ProfileImage: formOr(c, "profileImage", defaultProfileImage),
		Type:         header.Header.Get("Content-Type"),
	}
	if err := h.feedSvc.AddStory(c.Request.Context(), story); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, story)
}

// ListStories handles GET /stories.
func (h *FeedHandler) ListStories(c *gin.Context) {
	stories, err := h.feedSvc.ListStories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stories)
}

// ClearStories handles DELETE /stories.
func (h *FeedHandler) ClearStories(c *gin.Context) {
	if err := h.feedSvc.ClearStories(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "All stories deleted.")
}

// React handles POST /react. An empty emoji removes the user's reaction.
func (h *FeedHandler) React(c *gin.Context) {
	var req dto.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	post, err := h.feedSvc.React(c.Request.Context(), req.PostID, req.User, req.Emoji)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": post.Reactions, "like": post.Like})
}

// Like handles POST /like.
func (h *FeedHandler) Like(c *gin.Context) {
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	like, err := h.feedSvc.Like(c.Request.Context(), req.PostID, req.Action)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"like": like})
}

// BumpCommentCount handles POST /comment.
func (h *FeedHandler) BumpCommentCount(c *gin.Context) {
	var req dto.PostIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	count, err := h.feedSvc.IncrementCommentCount(c.Request.Context(), req.PostID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": count})
}

// Share handles POST /share.
func (h *FeedHandler) Share(c *gin.Context) {
	var req dto.PostIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	count, err := h.feedSvc.Share(c.Request.Context(), req.PostID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"share": count})
}

// AddComment handles POST /comments.
func (h *FeedHandler) AddComment(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	comment, err := h.feedSvc.AddComment(c.Request.Context(), &domain.Comment{
		PostID:       req.PostID,
		Author:       req.Author,
		Text:         req.Text,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, comment)
}

// ListComments handles GET /comments/:postId.
func (h *FeedHandler) ListComments(c *gin.Context) {
	comments, err := h.feedSvc.ListComments(c.Request.Context(), c.Param("postId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, comments)
}

// ClearComments handles DELETE /comments.
func (h *FeedHandler) ClearComments(c *gin.Context) {
	if err := h.feedSvc.ClearComments(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "All comments deleted.")
}

func formOr(c *gin.Context, field, fallback string) string {
	if v := c.PostForm(field); v != "" {
		return v
	}
	return fallback
}
