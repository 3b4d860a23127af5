package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duitku/duitku-backend/internal/auth"
	"github.com/duitku/duitku-backend/internal/config"
	"github.com/duitku/duitku-backend/internal/usecase/export"
	"github.com/duitku/duitku-backend/internal/usecase/session"
)

// memStore is an in-memory DocumentStore for HTTP flow tests
type memStore struct {
	docs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (s *memStore) Load(_ context.Context, key string) ([]byte, error) {
	payload, ok := s.docs[key]
	if !ok {
		return nil, nil
	}
	return payload, nil
}

func (s *memStore) Save(_ context.Context, key string, payload []byte) error {
	s.docs[key] = payload
	return nil
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := auth.NewProvider("test-secret", time.Hour)
	sessions := session.NewManager(newMemStore(), nil, provider)
	handler := NewHandler(sessions, provider, export.NewService())
	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	return SetupRouter(cfg, handler, provider, sessions)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"username": username})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token     string `json:"token"`
			Identity  string `json:"identity"`
			CloudSync bool   `json:"cloudSync"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestLoginRejectsEmptyUsername(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"username": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/ledger", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/ledger", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpenseFlow(t *testing.T) {
	r := setupTestRouter(t)
	token := loginAs(t, r, "budi")

	// the bootstrap period is in place
	w := doJSON(t, r, http.MethodGet, "/api/ledger", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ledgerResp struct {
		Data struct {
			Periods []struct {
				ID       string `json:"id"`
				Expenses []struct {
					ID     string `json:"id"`
					Name   string `json:"name"`
					Amount int64  `json:"amount"`
				} `json:"expenses"`
			} `json:"periods"`
			ActivePeriodID string `json:"activePeriodId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ledgerResp))
	require.Len(t, ledgerResp.Data.Periods, 1)
	assert.Equal(t, ledgerResp.Data.Periods[0].ID, ledgerResp.Data.ActivePeriodID)

	// add a valid expense
	w = doJSON(t, r, http.MethodPost, "/api/expenses", token,
		gin.H{"name": "Coffee", "amount": 15000, "type": "panas"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var addResp struct {
		Data struct {
			Expense struct {
				ID string `json:"id"`
			} `json:"expense"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addResp))
	expenseID := addResp.Data.Expense.ID
	require.NotEmpty(t, expenseID)

	// invalid input is rejected before any state change
	w = doJSON(t, r, http.MethodPost, "/api/expenses", token,
		gin.H{"name": "", "amount": 15000, "type": "panas"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/expenses", token,
		gin.H{"name": "Coffee", "amount": -5, "type": "panas"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// edit, then verify via summary
	w = doJSON(t, r, http.MethodPatch, "/api/expenses/"+expenseID, token, gin.H{"amount": 20000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaryResp struct {
		Data struct {
			Summary struct {
				Panas struct {
					Spent int64 `json:"spent"`
				} `json:"panas"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaryResp))
	assert.Equal(t, int64(20000), summaryResp.Data.Summary.Panas.Spent)

	// editing an unknown expense is a 404
	w = doJSON(t, r, http.MethodPatch, "/api/expenses/6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		token, gin.H{"amount": 100})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// delete, absent id included, both succeed
	w = doJSON(t, r, http.MethodDelete, "/api/expenses/"+expenseID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/expenses/"+expenseID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartPeriodFlow(t *testing.T) {
	r := setupTestRouter(t)
	token := loginAs(t, r, "budi")

	w := doJSON(t, r, http.MethodPost, "/api/periods", token,
		gin.H{"salaryPanas": 1200000, "salaryDingin": 600000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/ledger", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Periods []struct {
				EndDate *string `json:"endDate"`
			} `json:"periods"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Periods, 2)
	assert.NotNil(t, resp.Data.Periods[0].EndDate, "bootstrap period is closed")
	assert.Nil(t, resp.Data.Periods[1].EndDate, "new period is the open one")
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r := setupTestRouter(t)
	token := loginAs(t, r, "budi")

	w := doJSON(t, r, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the token still parses, but the session is gone
	w = doJSON(t, r, http.MethodGet, "/api/ledger", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportDownload(t *testing.T) {
	r := setupTestRouter(t)
	token := loginAs(t, r, "budi")

	w := doJSON(t, r, http.MethodPost, "/api/expenses", token,
		gin.H{"name": "Coffee", "amount": 15000, "type": "panas"})
	require.Equal(t, http.StatusOK, w.Code)

	// token via query parameter, the download-link path
	req := httptest.NewRequest(http.MethodGet, "/api/export/xlsx?token="+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}
