package handler

import (
	"strconv"

	"cnc-fabbook/internal/adapter/http/dto"
	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"
	"cnc-fabbook/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes the raw transaction log.
type TransactionHandler struct {
	txSvc ports.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txSvc ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{txSvc: txSvc}
}

// Upload handles POST /upload-transaction.
func (h *TransactionHandler) Upload(c *gin.Context) {
	var req dto.UploadTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	_, err := h.txSvc.Record(c.Request.Context(), &domain.Transaction{
		UserName: req.UserName,
		Amount:   req.Amount,
		Type:     domain.TransactionType(req.Type),
		Status:   domain.TransactionStatus(req.Status),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Transaction saved successfully")
}

// List handles GET /transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	list, err := h.txSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ListByUser handles GET /transactions/:userName.
func (h *TransactionHandler) ListByUser(c *gin.Context) {
	list, err := h.txSvc.ListByUser(c.Request.Context(), c.Param("userName"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// UpdateStatus handles PUT /transactions/:transactionId/status.
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("transactionId"), 10, 64)
	if err != nil {
		response.Error(c, apperror.ErrNotFound("Transaction"))
		return
	}
	var req dto.TransactionStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if _, err := h.txSvc.SetStatus(c.Request.Context(), id, domain.TransactionStatus(req.Status)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Transaction status updated")
}
