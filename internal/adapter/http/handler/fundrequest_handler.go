package handler

import (
	"net/http"

	"cnc-fabbook/internal/adapter/http/dto"
	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"
	"cnc-fabbook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FundRequestHandler runs the deposit/withdraw submission and admin review
// endpoints.
type FundRequestHandler struct {
	fundSvc ports.FundRequestService
}

// NewFundRequestHandler creates a new FundRequestHandler.
func NewFundRequestHandler(fundSvc ports.FundRequestService) *FundRequestHandler {
	return &FundRequestHandler{fundSvc: fundSvc}
}

// SubmitDeposit handles POST /submit-deposit.
func (h *FundRequestHandler) SubmitDeposit(c *gin.Context) {
	h.submit(c, domain.FundRequestKindDeposit, "Deposit request submitted successfully")
}

// SubmitWithdraw handles POST /submit-withdraw.
func (h *FundRequestHandler) SubmitWithdraw(c *gin.Context) {
	h.submit(c, domain.FundRequestKindWithdraw, "Withdraw request submitted successfully")
}

func (h *FundRequestHandler) submit(c *gin.Context, kind domain.FundRequestKind, message string) {
	var req dto.SubmitFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	fr, err := h.fundSvc.Submit(c.Request.Context(), kind, ports.SubmitFundRequest{
		UserName: req.UserName,
		Amount:   req.Amount,
		Method:   req.Method,
		Details:  req.Details,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   message,
		"requestId": fr.ID,
	})
}

// ListDeposits handles GET /admin/requests.
func (h *FundRequestHandler) ListDeposits(c *gin.Context) {
	h.list(c, domain.FundRequestKindDeposit)
}

// ListWithdraws handles GET /admin/withdraw-requests.
func (h *FundRequestHandler) ListWithdraws(c *gin.Context) {
	h.list(c, domain.FundRequestKindWithdraw)
}

func (h *FundRequestHandler) list(c *gin.Context, kind domain.FundRequestKind) {
	list, err := h.fundSvc.List(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ApproveDeposit handles POST /admin/approve/:requestId.
func (h *FundRequestHandler) ApproveDeposit(c *gin.Context) {
	id, err := parseRequestID(c.Param("requestId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.fundSvc.Approve(c.Request.Context(), domain.FundRequestKindDeposit, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Request approved successfully")
}

// RejectDeposit handles POST /admin/reject/:requestId.
func (h *FundRequestHandler) RejectDeposit(c *gin.Context) {
	id, err := parseRequestID(c.Param("requestId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.fundSvc.Reject(c.Request.Context(), domain.FundRequestKindDeposit, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Request rejected successfully")
}

// UpdateDepositStatus handles PUT /admin/request/:requestId/status.
func (h *FundRequestHandler) UpdateDepositStatus(c *gin.Context) {
	id, err := parseRequestID(c.Param("requestId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RequestStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	_, err = h.fundSvc.SetStatus(c.Request.Context(), domain.FundRequestKindDeposit, id, domain.FundRequestStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Request status updated successfully")
}

// DecideWithdraw handles POST /admin/approve-withdraw and
// POST /admin/reject-withdraw. The request id travels in the body; an empty
// status falls back to the endpoint's default decision.
func (h *FundRequestHandler) DecideWithdraw(defaultStatus domain.FundRequestStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.WithdrawDecision
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
		id, err := parseRequestID(req.RequestID)
		if err != nil {
			response.Error(c, err)
			return
		}
		status := domain.FundRequestStatus(req.Status)
		if req.Status == "" {
			status = defaultStatus
		}
		if _, err := h.fundSvc.SetStatus(c.Request.Context(), domain.FundRequestKindWithdraw, id, status); err != nil {
			response.Error(c, err)
			return
		}
		if status == domain.FundRequestStatusApproved {
			response.Success(c, "Withdraw request approved successfully")
			return
		}
		response.Success(c, "Withdraw request rejected successfully")
	}
}

// parseRequestID treats a malformed id the same as an unknown one.
func parseRequestID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.ErrNotFound("Request")
	}
	return id, nil
}
