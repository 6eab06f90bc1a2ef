package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Settlement is the only primitive moving funds between accounts; under
// parallel load the buyer must never be driven negative and every successful
// payment must appear exactly once in the log.
func TestConcurrentSettlements(t *testing.T) {
	app := newTestApp(t)
	app.seedBalance("alice", 100)

	const attempts = 10
	results := make([]*httptest.ResponseRecorder, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = app.do(http.MethodPost, "/file-payment", gin.H{
				"buyer": "alice", "seller": "bob", "amount": 15,
				"fileType": "dxf", "filename": "part.dxf",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, w := range results {
		switch w.Code {
		case http.StatusOK:
			succeeded++
		case http.StatusBadRequest:
			assert.Contains(t, w.Body.String(), "Insufficient balance")
		default:
			t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
		}
	}
	require.Greater(t, succeeded, 0)
	require.LessOrEqual(t, succeeded, 6) // 7 x 15 would overdraw 100

	spent := decimal.NewFromInt(int64(succeeded * 15))
	assert.True(t, app.balance("alice").Equal(decimal.NewFromInt(100).Sub(spent)))
	assert.True(t, app.balance("bob").Equal(spent))

	list, err := app.txSvc.ListByUser(t.Context(), "alice")
	require.NoError(t, err)
	assert.Len(t, list, succeeded)

	seen := map[int64]bool{}
	for _, tx := range list {
		assert.False(t, seen[tx.ID], "duplicate transaction id %d", tx.ID)
		seen[tx.ID] = true
	}
}

// Racing approvals of one deposit must credit the account exactly once.
func TestConcurrentApprovals(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/submit-deposit", gin.H{
		"userName": "erin", "amount": 100, "method": "bank", "details": "ref 9",
	})
	require.Equal(t, http.StatusOK, w.Code)
	requestID := decodeJSON(t, w)["requestId"].(string)

	const attempts = 8
	results := make([]*httptest.ResponseRecorder, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = app.do(http.MethodPost, "/admin/approve/"+requestID, nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, w := range results {
		if w.Code == http.StatusOK {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, app.balance("erin").Equal(decimal.NewFromInt(100)))
}

// Parallel comment writes must all land.
func TestConcurrentComments(t *testing.T) {
	app := newTestApp(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := app.do(http.MethodPost, "/comments", gin.H{
				"postId": "post-1700000000000", "author": "bob", "text": "ok",
			})
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	w := app.do(http.MethodGet, "/comments/post-1700000000000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	assert.Len(t, comments, writers)
}
