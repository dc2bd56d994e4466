package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

// HealthHandler reports service readiness.
type HealthHandler struct {
	facade HealthFacade
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Ping handles GET /api/ping.
func (h *HealthHandler) Ping(c *gin.Context) {
	if err := h.facade.Ping(c.Request.Context()); err != nil {
		respondError(c, fmt.Errorf("%w: %s", domainErrors.ErrUnavailable, err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
