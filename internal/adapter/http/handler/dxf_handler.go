package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"cnc-fabbook/internal/adapter/http/dto"
	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/internal/dxf"
	"cnc-fabbook/pkg/apperror"
	"cnc-fabbook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DXFHandler manages DXF uploads, file info and the SVG preview rendering.
type DXFHandler struct {
	feedSvc ports.FeedService
	files   ports.FileStore
	log     zerolog.Logger
}

// NewDXFHandler creates a new DXFHandler.
func NewDXFHandler(feedSvc ports.FeedService, files ports.FileStore, log zerolog.Logger) *DXFHandler {
	return &DXFHandler{feedSvc: feedSvc, files: files, log: log}
}

// Upload handles POST /upload-dxf. The listing is also published to the feed
// as a purchasable dxf post.
func (h *DXFHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, apperror.Validation("No DXF file uploaded"))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".dxf") {
		response.Error(c, apperror.Validation("Only DXF files are allowed!"))
		return
	}

	stored, err := h.files.Save(c.Request.Context(), header.Filename, "dxf-files", file)
	if err != nil {
		response.Error(c, err)
		return
	}

	user := formOr(c, "user", "Anonymous")
	projectName := formOr(c, "projectName", "Unnamed Project")
	description := c.PostForm("description")
	category := formOr(c, "category", "other")
	now := time.Now().UnixMilli()

	post := &domain.Post{
		URL:          stored.URL,
		Time:         now,
		User:         user,
		Name:         user,
		ProfileImage: formOr(c, "profileImage", defaultProfileImage),
		Caption:      fmt.Sprintf("📐 %s\n\n%s\n\n#DXF #%s", projectName, description, category),
		Type:         "dxf",
		Category:     category,
		Tags:         c.PostForm("tags"),
		Privacy:      formOr(c, "privacy", "public"),
		Thumbnail:    c.PostForm("thumbnail"),
		Price:        c.PostForm("price"),
	}
	if err := h.feedSvc.AddDXFPost(c.Request.Context(), post); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileUrl":      stored.URL,
		"projectName":  projectName,
		"description":  description,
		"category":     category,
		"tags":         post.Tags,
		"privacy":      post.Privacy,
		"user":         user,
		"profileImage": post.ProfileImage,
		"time":         now,
		"price":        post.Price,
	})
}

// Info handles GET /dxf/:filename.
func (h *DXFHandler) Info(c *gin.Context) {
	filename := c.Param("filename")
	info, err := h.files.Stat(filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".dxf") {
		response.Error(c, apperror.Validation("Not a DXF file"))
		return
	}
	response.OK(c, dto.FileInfoResponse{
		Filename:  info.Filename,
		Size:      info.Size,
		URL:       info.URL,
		CreatedAt: info.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ToSVG handles GET /dxf-to-svg?file=<name>. Render failures degrade to a
// placeholder SVG rather than an error status so embedded previews never
// break the page.
func (h *DXFHandler) ToSVG(c *gin.Context) {
	filename := c.Query("file")
	if filename == "" {
		c.String(http.StatusBadRequest, "No file specified")
		return
	}
	f, err := h.files.Open(filename)
	if err != nil {
		c.String(http.StatusNotFound, "File not found")
		return
	}
	defer f.Close()

	drawing, err := dxf.Parse(f)
	if err != nil {
		h.log.Warn().Err(err).Str("file", filename).Msg("dxf parse failed, serving fallback preview")
		c.Data(http.StatusOK, "image/svg+xml", []byte(dxf.FallbackSVG(filename)))
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(dxf.RenderSVG(drawing, filename)))
}
