package dto

import "github.com/shopspring/decimal"

// --- Registration / auth ---

// SaveNameRequest is the body of the first signup step.
type SaveNameRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
}

// SaveDOBRequest is the body of the date-of-birth signup step.
type SaveDOBRequest struct {
	Month string `json:"month" binding:"required"`
	Day   string `json:"day" binding:"required"`
	Year  string `json:"year" binding:"required"`
}

// CheckPhoneRequest asks whether a phone number is already registered.
type CheckPhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// CheckPhoneResponse reports phone availability.
type CheckPhoneResponse struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

// SaveAccountRequest is the body of the phone/password signup step.
type SaveAccountRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// CompleteRegistrationRequest is the final signup step.
type CompleteRegistrationRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Month       string `json:"month"`
	Day         string `json:"day"`
	Year        string `json:"year"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest is the login body.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// UserInfo is the public slice of an account returned by auth endpoints.
type UserInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// LoginResponse is the success body of /api/login.
type LoginResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
	Token   string   `json:"token"`
	Expiry  int64    `json:"expiry"` // Unix timestamp
}

// StatsResponse summarizes the signup log.
type StatsResponse struct {
	TotalRegistrations     int `json:"totalRegistrations"`
	CompletedRegistrations int `json:"completedRegistrations"`
	PendingRegistrations   int `json:"pendingRegistrations"`
}

// PasswordResetRequest starts the SMS reset flow.
type PasswordResetRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// VerifyResetCodeRequest checks a pending reset code.
type VerifyResetCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// --- Ledger / fund requests ---

// BalanceResponse is the `{balance}` read shape.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// UpdateBalanceRequest credits an account (admin path).
type UpdateBalanceRequest struct {
	UserName string          `json:"userName" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// SubtractBalanceRequest debits an account.
type SubtractBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// NewBalanceResponse is the `{success, newBalance}` mutation shape.
type NewBalanceResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

// SubmitFundRequest is a deposit or withdraw submission.
type SubmitFundRequest struct {
	UserName string          `json:"userName" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Method   string          `json:"method"`
	Details  string          `json:"details"`
}

// RequestStatusUpdate sets an arbitrary review status on a request.
type RequestStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// WithdrawDecision identifies a withdraw request decision by body, matching
// the admin client's wire shape.
type WithdrawDecision struct {
	RequestID string `json:"requestId" binding:"required"`
	Status    string `json:"status"`
}

// --- Settlement / transactions ---

// FilePaymentRequest runs the settlement protocol.
type FilePaymentRequest struct {
	Buyer    string          `json:"buyer" binding:"required"`
	Seller   string          `json:"seller" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	FileType string          `json:"fileType" binding:"required"`
	Filename string          `json:"filename" binding:"required,stored_filename"`
	URL      string          `json:"url" binding:"omitempty,safe_url"`
}

// FilePaymentResponse is the settlement success body.
type FilePaymentResponse struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	BuyerBalance  decimal.Decimal `json:"buyerBalance"`
	SellerBalance decimal.Decimal `json:"sellerBalance"`
	TransactionID int64           `json:"transactionId"`
	FileURL       string          `json:"fileUrl,omitempty"`
}

// UploadTransactionRequest records a manual ledger log entry.
type UploadTransactionRequest struct {
	UserName string          `json:"userName" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Type     string          `json:"type" binding:"required"`
	Status   string          `json:"status"`
}

// TransactionStatusUpdate sets a transaction's status.
type TransactionStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// --- Feed ---

// ReactRequest sets or clears a user's emoji on a post.
type ReactRequest struct {
	PostID string `json:"postId" binding:"required"`
	User   string `json:"user"`
	Emoji  string `json:"emoji"`
}

// LikeRequest bumps or drops a post's like counter.
type LikeRequest struct {
	PostID string `json:"postId" binding:"required"`
	Action string `json:"action" binding:"required,oneof=like unlike"`
}

// PostIDRequest addresses a post by its public id.
type PostIDRequest struct {
	PostID string `json:"postId" binding:"required"`
}

// CommentRequest stores a comment on a post.
type CommentRequest struct {
	PostID       string `json:"postId" binding:"required"`
	Author       string `json:"author" binding:"required"`
	Text         string `json:"text" binding:"required"`
	ProfileImage string `json:"profileImage"`
}

// --- Profile extras ---

// AboutRequest overlays a user's about section.
type AboutRequest struct {
	UserName  string         `json:"userName" binding:"required"`
	AboutData map[string]any `json:"aboutData"`
}

// BioRequest sets a user's one-line bio.
type BioRequest struct {
	UserName string `json:"userName" binding:"required"`
	Bio      string `json:"bio"`
}

// BioResponse is the per-user bio read shape.
type BioResponse struct {
	Bio string `json:"bio"`
}

// --- Files ---

// FileInfoResponse describes a stored upload.
type FileInfoResponse struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
}
