package handler

import (
	"net/http"

	"cnc-fabbook/internal/adapter/http/dto"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"
	"cnc-fabbook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentHandler exposes the file purchase settlement and the gated download.
type PaymentHandler struct {
	settlement ports.SettlementService
	download   ports.DownloadService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(settlement ports.SettlementService, download ports.DownloadService) *PaymentHandler {
	return &PaymentHandler{settlement: settlement, download: download}
}

// FilePayment handles POST /file-payment.
func (h *PaymentHandler) FilePayment(c *gin.Context) {
	var req dto.FilePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	result, err := h.settlement.Settle(c.Request.Context(), ports.SettlementRequest{
		Buyer:    req.Buyer,
		Seller:   req.Seller,
		Amount:   req.Amount,
		FileType: req.FileType,
		Filename: req.Filename,
		FileURL:  req.URL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FilePaymentResponse{
		Success:       true,
		Message:       "Payment completed successfully",
		BuyerBalance:  result.BuyerBalance,
		SellerBalance: result.SellerBalance,
		TransactionID: result.TransactionID,
		FileURL:       result.FileURL,
	})
}

// Download handles GET /download/:filename. The buyer, seller, amount and
// fileType query parameters must match a recent completed purchase; any
// mismatch, including missing parameters, is reported the same way.
func (h *PaymentHandler) Download(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		response.Error(c, apperror.ErrPaymentVerificationFailed())
		return
	}
	grant, err := h.download.Authorize(c.Request.Context(), ports.DownloadRequest{
		Filename: c.Param("filename"),
		Buyer:    c.Query("buyer"),
		Seller:   c.Query("seller"),
		Amount:   amount,
		FileType: c.Query("fileType"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Type", grant.ContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+c.Param("filename")+"\"")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Status(http.StatusOK)
	c.File(grant.Path)
}
