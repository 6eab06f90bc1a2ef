package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cnc-fabbook/config"
	"cnc-fabbook/internal/adapter/http/handler"
	"cnc-fabbook/internal/adapter/storage/local"
	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/internal/core/ports/mocks"
	"cnc-fabbook/internal/service"
	"cnc-fabbook/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type routerDeps struct {
	ctrl       *gomock.Controller
	ledger     *mocks.MockLedgerService
	fund       *mocks.MockFundRequestService
	settlement *mocks.MockSettlementService
	download   *mocks.MockDownloadService
	tx         *mocks.MockTransactionService
	auth       *mocks.MockAuthService
	profile    *mocks.MockProfileService
	feed       *mocks.MockFeedService
	files      *local.FileStore
	tokenSvc   ports.TokenService
	router     *gin.Engine
}

func setupRouter(t *testing.T) *routerDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	d := &routerDeps{
		ctrl:       ctrl,
		ledger:     mocks.NewMockLedgerService(ctrl),
		fund:       mocks.NewMockFundRequestService(ctrl),
		settlement: mocks.NewMockSettlementService(ctrl),
		download:   mocks.NewMockDownloadService(ctrl),
		tx:         mocks.NewMockTransactionService(ctrl),
		auth:       mocks.NewMockAuthService(ctrl),
		profile:    mocks.NewMockProfileService(ctrl),
		feed:       mocks.NewMockFeedService(ctrl),
	}

	files, err := local.NewFileStore(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	d.files = files

	log := zerolog.Nop()
	d.tokenSvc = service.NewJWTTokenService("test-secret", time.Hour, "cnc-fabbook")

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Server.MaxBodySize = 32 << 20

	d.router = handler.SetupRouter(handler.RouterDeps{
		Config:      cfg,
		Log:         log,
		Auth:        handler.NewAuthHandler(d.auth),
		Balance:     handler.NewBalanceHandler(d.ledger),
		FundRequest: handler.NewFundRequestHandler(d.fund),
		Payment:     handler.NewPaymentHandler(d.settlement, d.download),
		Transaction: handler.NewTransactionHandler(d.tx),
		Profile:     handler.NewProfileHandler(d.profile, files),
		Feed:        handler.NewFeedHandler(d.feed, files),
		DXF:         handler.NewDXFHandler(d.feed, files, log),
		TokenSvc:    d.tokenSvc,
		Files:       files,
	})
	return d
}

func (d *routerDeps) doJSON(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

func TestGetBalance(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.ledger.EXPECT().GetProfile(gomock.Any(), "alice").
		Return(&domain.Profile{Name: "alice", Balance: decimal.NewFromInt(25)}, nil)

	w := d.doJSON(http.MethodGet, "/user/balance/alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":"25"`)
}

func TestGetBalance_UnknownAccount(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.ledger.EXPECT().GetProfile(gomock.Any(), "ghost").
		Return(nil, apperror.ErrNotFound("Profile"))

	w := d.doJSON(http.MethodGet, "/user/balance/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Profile not found")
}

func TestUpdateBalance(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.ledger.EXPECT().GetProfile(gomock.Any(), "alice").
		Return(&domain.Profile{Name: "alice", Balance: decimal.NewFromInt(10)}, nil)
	d.ledger.EXPECT().Credit(gomock.Any(), "alice", decimal.NewFromInt(40)).
		Return(decimal.NewFromInt(50), nil)

	w := d.doJSON(http.MethodPost, "/admin/update-balance", gin.H{"userName": "alice", "amount": 40})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Balance updated successfully")
	assert.Contains(t, w.Body.String(), `"newBalance":"50"`)
}

func TestUpdateBalance_RejectsNonPositive(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := d.doJSON(http.MethodPost, "/admin/update-balance", gin.H{"userName": "alice", "amount": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilePayment(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.settlement.EXPECT().Settle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req ports.SettlementRequest) (*ports.SettlementResult, error) {
			assert.Equal(t, "alice", req.Buyer)
			assert.Equal(t, "bob", req.Seller)
			assert.True(t, req.Amount.Equal(decimal.NewFromInt(40)))
			return &ports.SettlementResult{
				TransactionID: 1700000000000,
				BuyerBalance:  decimal.NewFromInt(60),
				SellerBalance: decimal.NewFromInt(40),
				FileURL:       "http://localhost:8080/uploads/part.dxf",
			}, nil
		})

	w := d.doJSON(http.MethodPost, "/file-payment", gin.H{
		"buyer": "alice", "seller": "bob", "amount": 40,
		"fileType": "dxf", "filename": "part.dxf",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"transactionId":1700000000000`)
	assert.Contains(t, w.Body.String(), `"buyerBalance":"60"`)
	assert.Contains(t, w.Body.String(), "Payment completed successfully")
}

func TestFilePayment_InsufficientBalance(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.settlement.EXPECT().Settle(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientBalance())

	w := d.doJSON(http.MethodPost, "/file-payment", gin.H{
		"buyer": "carl", "seller": "bob", "amount": 999,
		"fileType": "dxf", "filename": "part.dxf",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient balance")
}

func TestDownload(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	path := filepath.Join(t.TempDir(), "part.dxf")
	require.NoError(t, os.WriteFile(path, []byte("0\nEOF\n"), 0o644))

	d.download.EXPECT().Authorize(gomock.Any(), ports.DownloadRequest{
		Filename: "part.dxf",
		Buyer:    "alice",
		Seller:   "bob",
		Amount:   decimal.NewFromInt(40),
		FileType: "dxf",
	}).Return(&ports.DownloadGrant{TransactionID: 1, Path: path, ContentType: "application/dxf"}, nil)

	w := d.doJSON(http.MethodGet, "/download/part.dxf?buyer=alice&seller=bob&amount=40&fileType=dxf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/dxf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="part.dxf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Equal(t, "0\nEOF\n", w.Body.String())
}

func TestDownload_VerificationFailed(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.download.EXPECT().Authorize(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrPaymentVerificationFailed())

	w := d.doJSON(http.MethodGet, "/download/part.dxf?buyer=mallory&seller=bob&amount=40&fileType=dxf", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Payment verification failed")
}

func TestDownload_MissingAmount(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := d.doJSON(http.MethodGet, "/download/part.dxf?buyer=alice&seller=bob&fileType=dxf", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmitDeposit(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	id := uuid.New()
	d.fund.EXPECT().Submit(gomock.Any(), domain.FundRequestKindDeposit, ports.SubmitFundRequest{
		UserName: "erin",
		Amount:   decimal.NewFromInt(100),
		Method:   "bank",
		Details:  "ref 42",
	}).Return(&domain.FundRequest{ID: id, Status: domain.FundRequestStatusPending}, nil)

	w := d.doJSON(http.MethodPost, "/submit-deposit", gin.H{
		"userName": "erin", "amount": 100, "method": "bank", "details": "ref 42",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Deposit request submitted successfully")
	assert.Contains(t, w.Body.String(), id.String())
}

func TestApproveDeposit(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	id := uuid.New()
	d.fund.EXPECT().Approve(gomock.Any(), domain.FundRequestKindDeposit, id).
		Return(&domain.FundRequest{ID: id, Status: domain.FundRequestStatusApproved}, nil)

	w := d.doJSON(http.MethodPost, "/admin/approve/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Request approved successfully")
}

func TestApproveDeposit_MalformedID(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := d.doJSON(http.MethodPost, "/admin/approve/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Request not found")
}

func TestApproveWithdraw_DefaultStatus(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	id := uuid.New()
	d.fund.EXPECT().SetStatus(gomock.Any(), domain.FundRequestKindWithdraw, id, domain.FundRequestStatusApproved).
		Return(&domain.FundRequest{ID: id, Status: domain.FundRequestStatusApproved}, nil)

	w := d.doJSON(http.MethodPost, "/admin/approve-withdraw", gin.H{"requestId": id.String()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Withdraw request approved successfully")
}

func TestRejectWithdraw(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	id := uuid.New()
	d.fund.EXPECT().SetStatus(gomock.Any(), domain.FundRequestKindWithdraw, id, domain.FundRequestStatusRejected).
		Return(&domain.FundRequest{ID: id, Status: domain.FundRequestStatusRejected}, nil)

	w := d.doJSON(http.MethodPost, "/admin/reject-withdraw", gin.H{"requestId": id.String()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Withdraw request rejected successfully")
}

func TestUploadTransaction(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.tx.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, tr *domain.Transaction) (*domain.Transaction, error) {
			assert.Equal(t, "erin", tr.UserName)
			assert.Equal(t, domain.TransactionTypeDeposit, tr.Type)
			return tr, nil
		})

	w := d.doJSON(http.MethodPost, "/upload-transaction", gin.H{
		"userName": "erin", "amount": 100, "type": "deposit", "status": "pending",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Transaction saved successfully")
}

func TestUpdateTransactionStatus(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.tx.EXPECT().SetStatus(gomock.Any(), int64(1700000000000), domain.TransactionStatusCompleted).
		Return(&domain.Transaction{ID: 1700000000000, Status: domain.TransactionStatusCompleted}, nil)

	w := d.doJSON(http.MethodPut, "/transactions/1700000000000/status", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Transaction status updated")
}

func TestLogin(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	reg := &domain.Registration{FirstName: "Alice", LastName: "Nguyen", PhoneNumber: "+15550100"}
	expiry := time.Now().Add(time.Hour)
	d.auth.EXPECT().Login(gomock.Any(), "+15550100", "hunter22").
		Return(reg, "token-abc", expiry, nil)

	w := d.doJSON(http.MethodPost, "/api/login", gin.H{"phoneNumber": "+15550100", "password": "hunter22"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login successful")
	assert.Contains(t, w.Body.String(), "token-abc")
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"expiry":%d`, expiry.Unix()))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.auth.EXPECT().Login(gomock.Any(), "+15550100", "wrong").
		Return(nil, "", time.Time{}, apperror.ErrInvalidCredentials())

	w := d.doJSON(http.MethodPost, "/api/login", gin.H{"phoneNumber": "+15550100", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid phone number or password")
}

func TestListRegistrations_StripsPasswordHashes(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.auth.EXPECT().ListRegistrations(gomock.Any()).Return([]domain.Registration{
		{PhoneNumber: "+15550100", PasswordHash: "$argon2id$secret"},
	}, nil)

	w := d.doJSON(http.MethodGet, "/api/registrations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "argon2id")
}

func TestStats(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.auth.EXPECT().Stats(gomock.Any()).
		Return(&ports.RegistrationStats{Total: 4, Completed: 2, Pending: 2}, nil)

	w := d.doJSON(http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalRegistrations":4`)
	assert.Contains(t, w.Body.String(), `"completedRegistrations":2`)
}

func TestCurrentUser_RequiresToken(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := d.doJSON(http.MethodGet, "/api/current-user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUser(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	token, _, err := d.tokenSvc.Generate("+15550100")
	require.NoError(t, err)

	d.auth.EXPECT().GetCompleted(gomock.Any(), "+15550100").
		Return(&domain.Registration{FirstName: "Alice", PhoneNumber: "+15550100"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice")
}

func TestReact(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	post := &domain.Post{
		Time:      1700000000000,
		Like:      1,
		Reactions: []domain.Reaction{{User: "alice", Emoji: "❤️"}},
	}
	d.feed.EXPECT().React(gomock.Any(), "post-1700000000000", "alice", "❤️").Return(post, nil)

	w := d.doJSON(http.MethodPost, "/react", gin.H{"postId": "post-1700000000000", "user": "alice", "emoji": "❤️"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reactions"`)
	assert.Contains(t, w.Body.String(), `"like":1`)
}

func TestLike_UnknownPost(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.feed.EXPECT().Like(gomock.Any(), "post-1", "like").
		Return(0, apperror.ErrNotFound("Post"))

	w := d.doJSON(http.MethodPost, "/like", gin.H{"postId": "post-1", "action": "like"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddComment(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.feed.EXPECT().AddComment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, cm *domain.Comment) (*domain.Comment, error) {
			cm.ID = 42
			cm.Timestamp = time.Now()
			return cm, nil
		})

	w := d.doJSON(http.MethodPost, "/comments", gin.H{
		"postId": "post-1", "author": "bob", "text": "nice part",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":42`)
	assert.Contains(t, w.Body.String(), "nice part")
}

func TestUploadPost_RejectsNonMedia(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="notes.txt"`},
		"Content-Type":        {"text/plain"},
	})
	require.NoError(t, err)
	_, _ = part.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/post", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only image and video files are allowed!")
}

func TestUploadDXF_RejectsOtherExtensions(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "model.stl")
	require.NoError(t, err)
	_, _ = part.Write([]byte("solid"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-dxf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only DXF files are allowed!")
}

func TestUploadDXF_PublishesListing(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.feed.EXPECT().AddDXFPost(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, p *domain.Post) error {
			assert.Equal(t, "dxf", p.Type)
			assert.Equal(t, "carol", p.User)
			assert.Contains(t, p.Caption, "Bracket Mount")
			assert.Contains(t, p.Caption, "#DXF #mechanical")
			return nil
		})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "bracket.dxf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("0\nEOF\n"))
	require.NoError(t, mw.WriteField("user", "carol"))
	require.NoError(t, mw.WriteField("projectName", "Bracket Mount"))
	require.NoError(t, mw.WriteField("category", "mechanical"))
	require.NoError(t, mw.WriteField("price", "40"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-dxf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"projectName":"Bracket Mount"`)
	assert.Contains(t, w.Body.String(), `"price":"40"`)
}

func TestDXFToSVG_NoFile(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := d.doJSON(http.MethodGet, "/dxf-to-svg", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file specified", w.Body.String())
}

func TestDXFToSVG_MissingFile(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := d.doJSON(http.MethodGet, "/dxf-to-svg?file=nope.dxf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "File not found", w.Body.String())
}

func TestDXFToSVG_RendersDrawing(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	dxfBody := "0\nSECTION\n2\nENTITIES\n0\nLINE\n10\n0\n20\n0\n11\n10\n21\n10\n0\nENDSEC\n0\nEOF\n"
	require.NoError(t, os.WriteFile(filepath.Join(d.files.Dir(), "part.dxf"), []byte(dxfBody), 0o644))

	w := d.doJSON(http.MethodGet, "/dxf-to-svg?file=part.dxf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<line")
}

func TestUploadProfile_BackgroundBranch(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.profile.EXPECT().SetBackground(gomock.Any(), "alice", gomock.Any()).
		Return(&domain.Profile{Name: "alice"}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "cover.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, mw.WriteField("name", "alice"))
	require.NoError(t, mw.WriteField("background", "1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-profile", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"background"`)
	assert.NotContains(t, w.Body.String(), `"balance"`)
}

func TestHealth(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := d.doJSON(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
