package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/duitku/duitku-backend/internal/auth"
	"github.com/duitku/duitku-backend/internal/config"
	"github.com/duitku/duitku-backend/internal/usecase/session"
)

// SetupRouter configures the Gin engine and wires every route
func SetupRouter(cfg *config.Config, handler *Handler, provider *auth.Provider, sessions *session.Manager) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	// login does not require a token
	api.POST("/auth/login", handler.Login)

	protected := api.Group("")
	protected.Use(AuthMiddleware(provider, sessions))

	protected.POST("/logout", handler.Logout)
	protected.GET("/ledger", handler.GetLedger)
	protected.GET("/summary", handler.GetSummary)
	protected.POST("/periods", handler.StartPeriod)
	protected.POST("/expenses", handler.AddExpense)
	protected.PATCH("/expenses/:id", handler.EditExpense)
	protected.DELETE("/expenses/:id", handler.DeleteExpense)
	protected.GET("/export/xlsx", handler.ExportXLSX)

	return r
}
