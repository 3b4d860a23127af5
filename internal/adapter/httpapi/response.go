package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duitku/duitku-backend/internal/domain"
)

// respondOK wraps successful responses in a uniform envelope
func respondOK(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// respondError maps a core error to an HTTP status and a uniform envelope.
// Unknown errors fall through as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
