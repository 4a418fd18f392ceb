package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderXRequestID = "X-Request-ID"
	requestIDKey     = "request_id"

	rateLimitKeyPrefix = "fuelmate:ratelimit:"
	rateLimitWindow    = time.Second
)

// RequestID keeps a valid incoming X-Request-ID or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if id, err := uuid.Parse(rid); err == nil {
			rid = id.String()
		} else {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger logs every request after it has been handled
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", GetRequestID(c)),
		}
		if uid := GetUserID(c); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery turns a panic into a 500 without leaking the stack to the client
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
					zap.Stack("stack"),
				)
				abortJSON(c, http.StatusInternalServerError, "Internal server error")
			}
		}()
		c.Next()
	}
}

// RateLimit is a fixed one-second window per client IP kept in Redis.
// When Redis is unreachable requests are let through and the failure is logged.
func RateLimit(rdb *redis.Client, limitPerSec int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKeyPrefix + c.ClientIP()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 200*time.Millisecond)
		defer cancel()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				log.Warn("rate limit expire", zap.Error(err))
			}
		}

		if count > int64(limitPerSec) {
			// a key that lost its expiry would block the client for good
			if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl < 0 {
				rdb.Expire(ctx, key, rateLimitWindow)
			}
			c.Header("Retry-After", "1")
			abortJSON(c, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limitPerSec))
		c.Next()
	}
}
