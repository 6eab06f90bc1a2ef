package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundRequestKind distinguishes money moving into or out of the platform.
type FundRequestKind string

const (
	FundRequestKindDeposit  FundRequestKind = "deposit"
	FundRequestKindWithdraw FundRequestKind = "withdraw"
)

// FundRequestStatus is the review state of a fund request.
type FundRequestStatus string

const (
	FundRequestStatusPending  FundRequestStatus = "pending"
	FundRequestStatusApproved FundRequestStatus = "approved"
	FundRequestStatusRejected FundRequestStatus = "rejected"
)

// FundRequest is a user-submitted deposit or withdraw awaiting admin review.
// pending -> approved and pending -> rejected are the only transitions; both
// are terminal. The ledger effect fires exactly once, on the approved path.
type FundRequest struct {
	ID          uuid.UUID         `json:"id"`
	Kind        FundRequestKind   `json:"kind"`
	UserName    string            `json:"userName"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      FundRequestStatus `json:"status"`
	Method      string            `json:"method,omitempty"`
	Details     string            `json:"details,omitempty"`
	SubmittedAt time.Time         `json:"submittedAt"`
	ReviewedAt  *time.Time        `json:"reviewedAt,omitempty"`
}

// IsTerminal reports whether the request has been processed.
func (r *FundRequest) IsTerminal() bool {
	return r.Status == FundRequestStatusApproved || r.Status == FundRequestStatusRejected
}
