package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	domainerr "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP
type IPRateLimiter struct {
	limit        rate.Limit
	burst        int
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewIPRateLimiter allows requestsPerMinute per client with the given burst
func NewIPRateLimiter(requestsPerMinute, burst int, timeProvider coreport.TimeProvider, logger coreport.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		limit:        rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:        burst,
		timeProvider: timeProvider,
		logger:       logger,
		clients:      make(map[string]*clientLimiter),
	}
}

// Limiter returns the bucket for key, creating it on first use
func (l *IPRateLimiter) Limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, ok := l.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = client
	}
	client.lastSeen = l.timeProvider.Now()
	return client.limiter
}

// Cleanup drops buckets of clients not seen within the idle TTL and returns how many were removed
func (l *IPRateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	cutoff := l.timeProvider.Now().Add(-limiterIdleTTL)
	for key, client := range l.clients {
		if client.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Middleware rejects requests over the limit with 429 and a Retry-After header
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := l.timeProvider.Now()
		reservation := l.Limiter(ip).ReserveN(now, 1)
		if delay := reservation.DelayFrom(now); delay > 0 {
			reservation.CancelAt(now)
			retryAfter := int64(math.Ceil(delay.Seconds()))

			l.logger.Warn("Rate limit exceeded", map[string]any{
				"ip":         ip,
				"path":       c.Request.URL.Path,
				"request_id": coreport.RequestIDFromContext(c.Request.Context()),
			})
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Code:    domainerr.CodeRateLimited,
				Message: "Too many requests, please try again later",
				Details: map[string]any{"retryAfterSeconds": retryAfter},
			})
			return
		}
		c.Next()
	}
}
