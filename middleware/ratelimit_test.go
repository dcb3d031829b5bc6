package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	r := limitedRouter(NewRateLimiter(rate.Limit(1), 3))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	r := limitedRouter(NewRateLimiter(rate.Limit(1), 2))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1)

	assert.True(t, rl.get("10.0.0.1").Allow())
	assert.False(t, rl.get("10.0.0.1").Allow())
	assert.True(t, rl.get("10.0.0.2").Allow())
}
