package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
)

// RespondError writes {"error": message} and keeps it out of caches.
func RespondError(c *gin.Context, code int, message string) {
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondUpstream maps a content source failure: not found becomes 404,
// anything else is logged and answered with 502.
func respondUpstream(c *gin.Context, err error, what string) {
	if errors.Is(err, cms.ErrNotFound) {
		RespondError(c, http.StatusNotFound, what+" not found")
		return
	}
	log.Printf("Failed to load %s: %v", what, err)
	RespondError(c, http.StatusBadGateway, "failed to load "+what)
}

// queryInt reads an integer query parameter, 0 when absent or malformed.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

// queryList accepts both ?tags=a,b and ?tags=a&tags=b.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
