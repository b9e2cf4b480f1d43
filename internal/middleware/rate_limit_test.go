package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, r := gin.CreateTestContext(httptest.NewRecorder())
	r.Use(RateLimit(nil, DefaultRateLimitConfig()))
	r.GET("/img", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/img", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_FailsOpenOnRedisError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// nothing listens on this port
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()

	_, r := gin.CreateTestContext(httptest.NewRecorder())
	r.Use(RateLimit(client, DefaultRateLimitConfig()))
	r.GET("/img", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/img", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		count     int64
		ttlMs     int64
		allowed   bool
		remaining int
		retry     time.Duration
	}{
		{"first request", 1, 60000, true, 59, 0},
		{"last allowed", 60, 1000, true, 0, 0},
		{"over limit", 61, 4500, false, 0, 4500 * time.Millisecond},
		{"retry floors at one second", 75, 20, false, 0, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decide(tt.count, tt.ttlMs, 60)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.remaining, d.Remaining)
			assert.Equal(t, tt.retry, d.RetryAfter)
		})
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	l := NewRateLimiter(nil, RateLimitConfig{Limit: 5})
	assert.Equal(t, 5, l.cfg.Limit)
	assert.Equal(t, time.Minute, l.cfg.Window)
	assert.Equal(t, "render:ratelimit:", l.cfg.KeyPrefix)

	d, err := l.Allow(context.Background(), "1.2.3.4")
	assert.NoError(t, err)
	assert.True(t, d.Allowed)
}
