package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCorsMiddleware(t *testing.T) {
	cors := NewCorsHandler([]string{"https://ayuroot.app", "http://localhost:3000"})
	r := gin.New()
	r.Use(cors.CorsMiddleware)
	r.GET("/health", HandleHealth)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantCode   int
	}{
		{"frontend origin", http.MethodGet, "https://ayuroot.app", "https://ayuroot.app", http.StatusOK},
		{"local dev origin", http.MethodGet, "http://localhost:3000", "http://localhost:3000", http.StatusOK},
		{"unknown origin", http.MethodGet, "https://evil.example", "https://ayuroot.app", http.StatusOK},
		{"preflight", http.MethodOptions, "http://localhost:3000", "http://localhost:3000", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/health", HandleHealth)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","message":"Backend is running"}`, w.Body.String())
}
