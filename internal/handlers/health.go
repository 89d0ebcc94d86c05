package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the content source is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	source string
	pinger Pinger // nil for sources that cannot go away
}

func NewHealthHandler(source string, pinger Pinger) *HealthHandler {
	return &HealthHandler{source: source, pinger: pinger}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "source": h.source, "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "source": h.source})
}
