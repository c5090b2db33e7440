package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// MsgRateLimited is shown to applicants who submit too often
const MsgRateLimited = "Je hebt te vaak geprobeerd in te schrijven. Probeer het later opnieuw."

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter shared by every API instance
type RedisLimiter struct {
	client redis.Scripter
	script *redis.Script
	limit  int
	window time.Duration
	logger zerolog.Logger
}

// NewRedisLimiter allows limit requests per key in each window
func NewRedisLimiter(client redis.Scripter, limit int, window time.Duration, logger zerolog.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Allow fails open when Redis is unreachable
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil || key == "" || l.limit <= 0 || l.window <= 0 {
		return true
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key}, ttl, l.limit).Int64()
	if err != nil {
		l.logger.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
		return true
	}
	return allowed == 1
}

// IPRateLimiter keeps a token bucket per key in process memory
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter refills limit tokens per window, with a burst of limit
func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     window,
		now:      time.Now,
	}
}

// Allow consumes one token for key
func (l *IPRateLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep forgets visitors idle for a full window; their bucket would be full again
func (l *IPRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-l.idle)
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
		}
	}
}

// RateLimit rejects callers that exceed the limiter with 429
func RateLimit(limiter Limiter, scope string, lgr zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.Allow(c.Request.Context(), scope+":"+ip) {
			c.Next()
			return
		}

		metrics.RateLimitedTotal.Inc()
		lgr.Warn().Str("ip", ip).Str("path", c.FullPath()).Msg("Rate limit exceeded")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, MsgRateLimited)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewFailureResponse(errorDetail))
	}
}
