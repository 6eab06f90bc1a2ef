package handler

import (
	"net/http"

	"cnc-fabbook/internal/adapter/http/dto"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"
	"cnc-fabbook/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProfileHandler manages profile images, covers, about sections and bios.
type ProfileHandler struct {
	profileSvc ports.ProfileService
	files      ports.FileStore
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileSvc ports.ProfileService, files ports.FileStore) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, files: files}
}

// UploadImage handles POST /upload-profile. The multipart form carries the
// image under "file"; background=1 switches the upload to the cover photo.
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, apperror.Validation("No file uploaded"))
		return
	}
	defer file.Close()

	name := c.PostForm("name")
	if name == "" {
		name = "Anonymous"
	}
	stored, err := h.files.Save(c.Request.Context(), header.Filename, "profiles", file)
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.PostForm("background") == "1" {
		if _, err := h.profileSvc.SetBackground(c.Request.Context(), name, stored.URL); err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"background": stored.URL})
		return
	}

	profile, err := h.profileSvc.SetProfileImage(c.Request.Context(), name, stored.URL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// ListProfiles handles GET /profiles.
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileSvc.ListProfiles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profiles)
}

// SaveAbout handles POST /upload-about.
func (h *ProfileHandler) SaveAbout(c *gin.Context) {
	var req dto.AboutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := h.profileSvc.SaveAbout(c.Request.Context(), req.UserName, req.AboutData); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "About data saved successfully")
}

// GetAbout handles GET /about-data/:userName.
func (h *ProfileHandler) GetAbout(c *gin.Context) {
	data, err := h.profileSvc.GetAbout(c.Request.Context(), c.Param("userName"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

// GetAllAbout handles GET /about-data.
func (h *ProfileHandler) GetAllAbout(c *gin.Context) {
	data, err := h.profileSvc.GetAllAbout(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

// SaveBio handles POST /upload-bio.
func (h *ProfileHandler) SaveBio(c *gin.Context) {
	var req dto.BioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	if err := h.profileSvc.SaveBio(c.Request.Context(), req.UserName, req.Bio); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Bio saved successfully")
}

// GetBio handles GET /bio-data/:userName.
func (h *ProfileHandler) GetBio(c *gin.Context) {
	bio, err := h.profileSvc.GetBio(c.Request.Context(), c.Param("userName"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BioResponse{Bio: bio})
}

// GetAllBios handles GET /bio-data.
func (h *ProfileHandler) GetAllBios(c *gin.Context) {
	bios, err := h.profileSvc.GetAllBios(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, bios)
}
