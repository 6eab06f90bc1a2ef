package handler

import (
	"net/http"

	"cnc-fabbook/internal/adapter/http/dto"
	"cnc-fabbook/internal/adapter/http/middleware"
	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"
	"cnc-fabbook/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles the stepwise registration flow, login and password
// reset endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// SaveName handles POST /api/save-user-name.
func (h *AuthHandler) SaveName(c *gin.Context) {
	var req dto.SaveNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if _, err := h.authSvc.SaveName(c.Request.Context(), req.FirstName, req.LastName); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Name saved successfully")
}

// SaveDOB handles POST /api/save-user-dob.
func (h *AuthHandler) SaveDOB(c *gin.Context) {
	var req dto.SaveDOBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if _, err := h.authSvc.SaveDOB(c.Request.Context(), req.Month, req.Day, req.Year); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Date of birth saved successfully")
}

// CheckPhone handles POST /api/check-phone.
func (h *AuthHandler) CheckPhone(c *gin.Context) {
	var req dto.CheckPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	exists, err := h.authSvc.PhoneExists(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg := "Phone number available"
	if exists {
		msg = "Phone number already registered"
	}
	response.OK(c, dto.CheckPhoneResponse{Exists: exists, Message: msg})
}

// SaveAccount handles POST /api/save-user-account.
func (h *AuthHandler) SaveAccount(c *gin.Context) {
	var req dto.SaveAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if _, err := h.authSvc.SaveAccount(c.Request.Context(), req.PhoneNumber, req.Password); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Account saved successfully")
}

// CompleteRegistration handles POST /api/complete-user-registration.
func (h *AuthHandler) CompleteRegistration(c *gin.Context) {
	var req dto.CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	_, err := h.authSvc.CompleteRegistration(c.Request.Context(), ports.CompleteRegistrationRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Month:       req.Month,
		Day:         req.Day,
		Year:        req.Year,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Registration completed successfully")
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	reg, token, expiresAt, err := h.authSvc.Login(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		User: dto.UserInfo{
			FirstName:   reg.FirstName,
			LastName:    reg.LastName,
			PhoneNumber: reg.PhoneNumber,
		},
		Token:  token,
		Expiry: expiresAt.Unix(),
	})
}

// ListRegistrations handles GET /api/registrations. Password hashes are
// stripped from the log before it leaves the process.
func (h *AuthHandler) ListRegistrations(c *gin.Context) {
	list, err := h.authSvc.ListRegistrations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stripHashes(list))
}

// Stats handles GET /api/stats.
func (h *AuthHandler) Stats(c *gin.Context) {
	stats, err := h.authSvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StatsResponse{
		TotalRegistrations:     stats.Total,
		CompletedRegistrations: stats.Completed,
		PendingRegistrations:   stats.Pending,
	})
}

// UserProfile handles GET /api/user-profile/:phoneNumber.
func (h *AuthHandler) UserProfile(c *gin.Context) {
	reg, err := h.authSvc.GetCompleted(c.Request.Context(), c.Param("phoneNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": gin.H{
			"firstName":   reg.FirstName,
			"lastName":    reg.LastName,
			"phoneNumber": reg.PhoneNumber,
			"month":       reg.Month,
			"day":         reg.Day,
			"year":        reg.Year,
			"displayName": reg.DisplayName(),
			"birthday":    reg.Birthday(),
		},
	})
}

// CurrentUser handles GET /api/current-user. The account comes from the
// session token, not from whoever registered last.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	phone := c.GetString(middleware.CtxPhoneNumber)
	reg, err := h.authSvc.GetCompleted(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"firstName":   reg.FirstName,
			"lastName":    reg.LastName,
			"phoneNumber": reg.PhoneNumber,
			"month":       reg.Month,
			"day":         reg.Day,
			"year":        reg.Year,
		},
	})
}

// PublicProfiles handles GET /api/public-profiles.
func (h *AuthHandler) PublicProfiles(c *gin.Context) {
	list, err := h.authSvc.ListCompleted(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	profiles := make([]gin.H, 0, len(list))
	for i := range list {
		reg := &list[i]
		profiles = append(profiles, gin.H{
			"firstName":   reg.FirstName,
			"lastName":    reg.LastName,
			"phoneNumber": reg.PhoneNumber,
			"displayName": reg.DisplayName(),
			"birthday":    reg.Birthday(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"profiles": profiles,
		"total":    len(profiles),
	})
}

// RequestPasswordReset handles POST /api/request-password-reset.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := h.authSvc.RequestPasswordReset(c.Request.Context(), req.PhoneNumber); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Reset code sent to your phone number via SMS")
}

// VerifyResetCode handles POST /api/verify-reset-code.
func (h *AuthHandler) VerifyResetCode(c *gin.Context) {
	var req dto.VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	reg, err := h.authSvc.VerifyResetCode(c.Request.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reset code verified successfully",
		"user": dto.UserInfo{
			FirstName:   reg.FirstName,
			LastName:    reg.LastName,
			PhoneNumber: reg.PhoneNumber,
		},
	})
}

// ResetPassword handles POST /api/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := h.authSvc.ResetPassword(c.Request.Context(), req.PhoneNumber, req.Code, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Password reset successfully")
}

func stripHashes(list []domain.Registration) []domain.Registration {
	out := make([]domain.Registration, len(list))
	copy(out, list)
	for i := range out {
		out[i].PasswordHash = ""
	}
	return out
}
