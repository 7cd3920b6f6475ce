package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CorsHandler struct {
	allowed  map[string]bool
	fallback string
}

// NewCorsHandler reflects any origin in allowedOrigins; other requests get
// the first entry.
func NewCorsHandler(allowedOrigins []string) *CorsHandler {
	h := &CorsHandler{allowed: make(map[string]bool, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		h.allowed[o] = true
	}
	if len(allowedOrigins) > 0 {
		h.fallback = allowedOrigins[0]
	}
	return h
}

func (h *CorsHandler) CorsMiddleware(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if !h.allowed[origin] {
		origin = h.fallback
	}
	c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	c.Writer.Header().Add("Vary", "Origin")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
