package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	AlgorithmFixedWindow   = "fixed_window"
	AlgorithmSlidingWindow = "sliding_window"

	ScopeIP   = "ip"
	ScopeUser = "user"
)

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	Algorithm   string
	Scope       string
}

var rateLimitRules = map[string]RateLimitConfig{
	"auth_register": {MaxRequests: 5, Window: time.Hour, Algorithm: AlgorithmFixedWindow, Scope: ScopeIP},
	"auth_login":    {MaxRequests: 10, Window: 15 * time.Minute, Algorithm: AlgorithmSlidingWindow, Scope: ScopeIP},

	"public_packages": {MaxRequests: 60, Window: time.Minute, Algorithm: AlgorithmSlidingWindow, Scope: ScopeIP},

	"payment_upload":   {MaxRequests: 10, Window: 10 * time.Minute, Algorithm: AlgorithmFixedWindow, Scope: ScopeUser},
	"report_generate":  {MaxRequests: 10, Window: time.Minute, Algorithm: AlgorithmFixedWindow, Scope: ScopeUser},
	"broadcast":        {MaxRequests: 3, Window: time.Minute, Algorithm: AlgorithmFixedWindow, Scope: ScopeUser},
	"write_operations": {MaxRequests: 60, Window: time.Minute, Algorithm: AlgorithmSlidingWindow, Scope: ScopeUser},

	"global_ip": {MaxRequests: 1000, Window: time.Minute, Algorithm: AlgorithmSlidingWindow, Scope: ScopeIP},
}

const fixedWindowScript = `
local current = redis.call('GET', KEYS[1])
local limit = tonumber(ARGV[2])
if current == false then
	redis.call('SET', KEYS[1], 1, 'EX', ARGV[1])
	return {1, limit - 1}
end
local count = tonumber(current)
if count >= limit then
	return {0, 0}
end
local new_count = redis.call('INCR', KEYS[1])
return {1, limit - new_count}
`

const slidingWindowScript = `
local now = tonumber(ARGV[1])
local max_requests = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, tonumber(ARGV[2]))
local current = redis.call('ZCARD', KEYS[1])
if current >= max_requests then
	return {0, 0}
end
redis.call('ZADD', KEYS[1], now, ARGV[5])
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[4]) + 60)
return {1, max_requests - current - 1}
`

// RateLimiter applies Redis-backed limits per route family. A nil client
// disables limiting.
type RateLimiter struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb, now: time.Now}
}

func ruleFor(path, method string) (string, RateLimitConfig) {
	switch {
	case strings.HasSuffix(path, "/auth/register"):
		return "auth_register", rateLimitRules["auth_register"]
	case strings.HasSuffix(path, "/auth/login"):
		return "auth_login", rateLimitRules["auth_login"]
	case path == "/api/packages" && method == http.MethodGet:
		return "public_packages", rateLimitRules["public_packages"]
	case strings.HasSuffix(path, "/payment-proof"):
		return "payment_upload", rateLimitRules["payment_upload"]
	case strings.HasSuffix(path, "/reports/generate"):
		return "report_generate", rateLimitRules["report_generate"]
	case strings.HasSuffix(path, "/notifications/broadcast"):
		return "broadcast", rateLimitRules["broadcast"]
	case method != http.MethodGet:
		return "write_operations", rateLimitRules["write_operations"]
	}
	return "", RateLimitConfig{}
}

func identifier(c *gin.Context, scope string) string {
	if scope == ScopeUser {
		if actor, ok := ActorFrom(c); ok {
			return fmt.Sprintf("user:%d", actor.ID)
		}
	}
	return "ip:" + c.ClientIP()
}

// Allow runs one rule against key and reports whether the request may pass.
func (l *RateLimiter) Allow(ctx context.Context, key string, rule RateLimitConfig) (bool, int, error) {
	var (
		res interface{}
		err error
	)
	switch rule.Algorithm {
	case AlgorithmFixedWindow:
		res, err = l.rdb.Eval(ctx, fixedWindowScript, []string{"rate:fw:" + key},
			int(rule.Window.Seconds()), rule.MaxRequests).Result()
	default:
		now := l.now()
		res, err = l.rdb.Eval(ctx, slidingWindowScript, []string{"rate:sw:" + key},
			now.UnixMilli(), now.Add(-rule.Window).UnixMilli(), rule.MaxRequests,
			int(rule.Window.Seconds()), fmt.Sprintf("%d", now.UnixNano())).Result()
	}
	if err != nil {
		return false, 0, err
	}
	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return false, 0, fmt.Errorf("unexpected rate limit reply %v", res)
	}
	allowed, _ := vals[0].(int64)
	remaining, _ := vals[1].(int64)
	if remaining < 0 {
		remaining = 0
	}
	return allowed == 1, int(remaining), nil
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.rdb == nil || c.Request.URL.Path == "/ping" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		allowed, _, err := l.Allow(ctx, "global:ip:"+c.ClientIP(), rateLimitRules["global_ip"])
		if err == nil && !allowed {
			tooMany(c, "global_ip", rateLimitRules["global_ip"])
			return
		}

		name, rule := ruleFor(c.FullPath(), c.Request.Method)
		if name == "" {
			c.Next()
			return
		}
		key := fmt.Sprintf("%s:%s", name, identifier(c, rule.Scope))
		allowed, remaining, err := l.Allow(ctx, key, rule)
		if err != nil {
			// redis down: fail open
			log.Warn().Err(err).Str("rule", name).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", l.now().Add(rule.Window).Unix()))
		if !allowed {
			log.Warn().Str("rule", name).Str("path", c.Request.URL.Path).Str("client", identifier(c, rule.Scope)).Msg("rate limit exceeded")
			tooMany(c, name, rule)
			return
		}
		c.Next()
	}
}

func tooMany(c *gin.Context, name string, rule RateLimitConfig) {
	msg := fmt.Sprintf("Too many requests, please try again in %v", rule.Window.String())
	if os.Getenv("APP_API_RETURN_LANG") == "IDN" {
		msg = fmt.Sprintf("Permintaan terlalu sering, harap coba lagi dalam %v", rule.Window.String())
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success":     false,
		"message":     msg,
		"code":        "RATE_LIMIT_EXCEEDED",
		"rule":        name,
		"retry_after": int(rule.Window.Seconds()),
	})
}
