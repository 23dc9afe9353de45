package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLocalRateLimiter_Allow(t *testing.T) {
	rl := NewLocalRateLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 3})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// other clients have their own bucket
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestLocalRateLimiter_Refill(t *testing.T) {
	rl := NewLocalRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 1})
	defer rl.Stop()

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("k"))
}

func TestLocalRateLimiter_StopIdempotent(t *testing.T) {
	rl := NewLocalRateLimiter(DefaultRateLimitConfig())
	rl.Stop()
	rl.Stop()
}

func TestRateLimiter_Middleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2}))
	router.POST("/api/v1/public/register", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/register", nil)
		req.RemoteAddr = "192.168.1.10:5000"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
		}
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(RateLimiter(RateLimitConfig{RequestsPerSecond: 0, BurstSize: 0}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
