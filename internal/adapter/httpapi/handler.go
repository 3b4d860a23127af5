package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/duitku/duitku-backend/internal/auth"
	"github.com/duitku/duitku-backend/internal/domain"
	"github.com/duitku/duitku-backend/internal/usecase/export"
	"github.com/duitku/duitku-backend/internal/usecase/session"
	"github.com/duitku/duitku-backend/internal/usecase/summary"
)

// Handler exposes the session operations over HTTP. It holds no ledger
// state of its own; every response is re-derived from the session so the
// rendered and persisted state can never diverge.
type Handler struct {
	sessions *session.Manager
	provider *auth.Provider
	exporter *export.Service
}

// NewHandler creates a new HTTP handler
func NewHandler(sessions *session.Manager, provider *auth.Provider, exporter *export.Service) *Handler {
	return &Handler{
		sessions: sessions,
		provider: provider,
		exporter: exporter,
	}
}

type loginReq struct {
	Username string `json:"username"`
}

// Login establishes a session for a username and returns its bearer token.
// The response carries cloudSync so the client can show the one-time
// advisory when remote persistence is unavailable.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	s, err := h.sessions.Login(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.provider.GenerateToken(s.Identity())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"token":     token,
		"identity":  s.Identity(),
		"cloudSync": s.CloudSyncEnabled(),
	})
}

// Logout tears down the caller's session
func (h *Handler) Logout(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		respondError(c, domain.ErrAuth)
		return
	}
	h.sessions.Logout(s.Identity())
	respondOK(c, gin.H{"loggedOut": true})
}

// GetLedger returns a full snapshot of the caller's ledger, all periods in
// creation order plus the active-period pointer.
func (h *Handler) GetLedger(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		respondError(c, domain.ErrAuth)
		return
	}

	snapshot, err := s.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"periods":        snapshot.Periods,
		"activePeriodId": snapshot.ActivePeriodID,
	})
}

// GetSummary returns the derived per-bucket figures for the active period
func (h *Handler) GetSummary(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		respondError(c, domain.ErrAuth)
		return
	}

	period, err := s.ActivePeriod()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"periodId": period.ID,
		"summary":  summary.ForPeriod(&period),
	})
}

type startPeriodReq struct {
	SalaryPanas  int64 `json:"salaryPanas"`
	SalaryDingin int64 `json:"salaryDingin"`
}

// StartPeriod closes the active period and opens the next one
func (h *Handler) StartPeriod(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		respondError(c, domain.ErrAuth)
		return
	}

	var req startPeriodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	period, err := s.StartNewPeriod(c.Request.Context(), req.SalaryPanas, req.SalaryDingin)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"period": period})
}

type addExpenseReq struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Type   string `json:"type"`
}

// AddExpense logs an expense against the active period
func (h *Handler) AddExpense(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		respondError(c, domain.ErrAuth)
		return
	}

	var req addExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	exp, err := s.AddExpense(c.Request.Context(), req.Name, req.Amount, domain.BucketType(req.Type))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"expense": exp})
}

type editExpenseReq struct {
	Amount int64 `json:"amount"`
}

// EditExpense replaces the amount of an expense in the active period
func (h *Handler) EditExpense(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		respondError(c, domain.ErrAuth)
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: invalid expense id", domain.ErrValidation))
		return
	}

	var req editExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	if err := s.EditExpenseAmount(c.Request.Context(), expenseID, req.Amount); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}

// DeleteExpense removes an expense from the active period; deleting an
// unknown id succeeds as a no-op.
func (h *Handler) DeleteExpense(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		respondError(c, domain.ErrAuth)
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: invalid expense id", domain.ErrValidation))
		return
	}

	if err := s.DeleteExpense(c.Request.Context(), expenseID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// ExportXLSX streams the caller's full ledger as a spreadsheet
func (h *Handler) ExportXLSX(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		respondError(c, domain.ErrAuth)
		return
	}

	snapshot, err := s.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}

	f, err := h.exporter.Workbook(snapshot)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
