package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeFilePayment TransactionType = "file_payment"
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeWithdraw    TransactionType = "withdraw"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry, newest first. A completed
// file_payment entry is also the authorization artifact the download gate
// consults.
type Transaction struct {
	ID        int64             `json:"id"` // milliseconds since epoch, unique
	Type      TransactionType   `json:"type"`
	Buyer     string            `json:"buyer,omitempty"`
	Seller    string            `json:"seller,omitempty"`
	UserName  string            `json:"userName,omitempty"`
	Amount    decimal.Decimal   `json:"amount"`
	FileType  string            `json:"fileType,omitempty"`
	Filename  string            `json:"filename,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Status    TransactionStatus `json:"status"`
}

// AuthorizesDownload reports whether this transaction matches a download
// request for the given parties and amount inside the validity window ending
// at now.
func (t *Transaction) AuthorizesDownload(buyer, seller string, amount decimal.Decimal, fileType string, now time.Time, window time.Duration) bool {
	return t.Type == TransactionTypeFilePayment &&
		t.Buyer == buyer &&
		t.Seller == seller &&
		t.Amount.Equal(amount) &&
		t.FileType == fileType &&
		now.Sub(t.Timestamp) < window
}
