package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/srijan008/MedGamma-Server/internal/auth"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const anonymousUserID = "anonymous"

// CORS allows the configured browser origins to call the API.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	allowAll := false
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// TokenValidator is the slice of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(token string) (*auth.TokenClaims, error)
}

// JwtAuth resolves the caller's identity. With auth disabled every request
// runs as the anonymous user, which matches single-user deployments.
func JwtAuth(validator TokenValidator, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || validator == nil {
			c.Set("user_id", anonymousUserID)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			c.Abort()
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "malformed Authorization header"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Username)
		c.Next()
	}
}

const rateLimitLuaScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'updated_at')
local tokens = tonumber(bucket[1])
local updated_at = tonumber(bucket[2])

if tokens == nil or updated_at == nil then
    tokens = capacity
    updated_at = now
end

local elapsed = math.max(0, now - updated_at)
local added_tokens = elapsed * rate
tokens = math.min(capacity, tokens + added_tokens)

local allowed = 0
local retry_after = 0

if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
else
    retry_after = (requested - tokens) / rate
end

redis.call('HMSET', key, 'tokens', tokens, 'updated_at', now)
redis.call('EXPIRE', key, 86400)

return {allowed, math.floor(tokens), math.ceil(retry_after)}
`

// RateLimit applies a per-IP token bucket backed by redis. Capacity is 2*qps
// with qps tokens refilled per second. Fails open when redis is unreachable.
func RateLimit(redisClient *redis.Client, qps int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()
		capacity := 2 * qps
		now := float64(time.Now().UnixNano()) / 1e9

		result, err := redisClient.Eval(
			c.Request.Context(),
			rateLimitLuaScript,
			[]string{key},
			capacity, float64(qps), now, 1,
		).Result()
		if err != nil {
			logging.L().Warn("rate limiter degraded, letting request through", zap.Error(err))
			c.Next()
			return
		}

		allowed := int64(0)
		remaining := capacity
		retryAfter := 0
		if arr, ok := result.([]any); ok && len(arr) >= 3 {
			if v, ok := arr[0].(int64); ok {
				allowed = v
			}
			if v, ok := arr[1].(int64); ok {
				remaining = int(v)
			}
			if v, ok := arr[2].(int64); ok {
				retryAfter = int(v)
			}
		}

		if allowed == 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(capacity))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(capacity))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
