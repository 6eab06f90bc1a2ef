package handler

import (
	"cnc-fabbook/internal/adapter/http/dto"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"
	"cnc-fabbook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BalanceHandler exposes ledger reads and the admin balance adjustments.
type BalanceHandler struct {
	ledger ports.LedgerService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(ledger ports.LedgerService) *BalanceHandler {
	return &BalanceHandler{ledger: ledger}
}

// GetBalance handles GET /user/balance/:userName. Unknown accounts are a 404,
// not a zero balance.
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	profile, err := h.ledger.GetProfile(c.Request.Context(), c.Param("userName"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{Balance: profile.Balance})
}

// UpdateBalance handles POST /admin/update-balance.
func (h *BalanceHandler) UpdateBalance(c *gin.Context) {
	var req dto.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		response.Error(c, apperror.Validation("amount must be positive"))
		return
	}
	if _, err := h.ledger.GetProfile(c.Request.Context(), req.UserName); err != nil {
		response.Error(c, err)
		return
	}
	balance, err := h.ledger.Credit(c.Request.Context(), req.UserName, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBalanceResponse{
		Success:    true,
		Message:    "Balance updated successfully",
		NewBalance: balance,
	})
}

// SubtractBalance handles POST /user/balance/:userName/subtract.
func (h *BalanceHandler) SubtractBalance(c *gin.Context) {
	var req dto.SubtractBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		response.Error(c, apperror.Validation("amount must be positive"))
		return
	}
	name := c.Param("userName")
	if _, err := h.ledger.GetProfile(c.Request.Context(), name); err != nil {
		response.Error(c, err)
		return
	}
	balance, err := h.ledger.Debit(c.Request.Context(), name, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBalanceResponse{
		Success:    true,
		Message:    "Balance updated successfully",
		NewBalance: balance,
	})
}
