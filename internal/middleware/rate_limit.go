package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the render rate limiter
type RateLimitConfig struct {
	Limit     int           // requests per window per client IP
	Window    time.Duration // fixed window length
	KeyPrefix string
	Message   string
}

// DefaultRateLimitConfig 렌더 요청 기본값: IP당 분당 60회
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     60,
		Window:    time.Minute,
		KeyPrefix: "render:ratelimit:",
		Message:   "이미지 생성 요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
	}
}

// fixed window counter; the first hit in a window sets its expiry
var fixedWindowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

// RateDecision is the outcome of one counted request
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// RateLimiter counts requests per key in Redis
type RateLimiter struct {
	client *redis.Client
	cfg    RateLimitConfig
}

// NewRateLimiter fills zero config fields from DefaultRateLimitConfig
func NewRateLimiter(client *redis.Client, cfg RateLimitConfig) *RateLimiter {
	def := DefaultRateLimitConfig()
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = def.KeyPrefix
	}
	if cfg.Message == "" {
		cfg.Message = def.Message
	}
	return &RateLimiter{client: client, cfg: cfg}
}

// Allow counts one request for key. A nil client allows everything.
func (l *RateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	if l.client == nil {
		return RateDecision{Allowed: true, Remaining: l.cfg.Limit}, nil
	}
	res, err := fixedWindowScript.Run(ctx, l.client, []string{l.cfg.KeyPrefix + key},
		l.cfg.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return RateDecision{}, err
	}
	return decide(res[0], res[1], l.cfg.Limit), nil
}

func decide(count, ttlMs int64, limit int) RateDecision {
	if count <= int64(limit) {
		return RateDecision{Allowed: true, Remaining: limit - int(count)}
	}
	retry := time.Duration(ttlMs) * time.Millisecond
	if retry < time.Second {
		retry = time.Second
	}
	return RateDecision{RetryAfter: retry}
}

// RateLimit limits requests per client IP. Redis errors fail open.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	limiter := NewRateLimiter(redisClient, cfg)
	return func(c *gin.Context) {
		if limiter.client == nil {
			c.Next()
			return
		}

		d, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())))
			common.V2ErrorResponse(c, http.StatusTooManyRequests, limiter.cfg.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
