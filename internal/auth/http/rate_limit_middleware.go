package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
)

// rateLimiterStore holds per-session rate limiters with periodic cleanup.
type rateLimiterStore struct {
	limiters sync.Map // map[string]*rateLimiterEntry
	rps      float64
	burst    int
}

// rateLimiterEntry holds a rate limiter and its last access time.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// RateLimitMiddleware enforces per-session rate limiting using a token
// bucket per user. Must run after the authentication resolver; anonymous
// sessions are limited per client address instead.
//
// Returns 429 with a Retry-After header when the limit is exceeded.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{rps: rps, burst: burst}

	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		identity := authDomain.IdentityFromContext(c.Request.Context())

		key := identity.User
		if identity.IsGuest() {
			key = "guest:" + c.ClientIP()
		}

		limiter := store.getLimiter(key)
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.String("session", key),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter retrieves or creates the rate limiter for a session key.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	if existing, loaded := s.limiters.LoadOrStore(key, entry); loaded {
		return existing.(*rateLimiterEntry).limiter
	}
	return entry.limiter
}

// cleanupStale drops limiters that have not been used for twice the
// cleanup interval.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * interval)
			s.limiters.Range(func(key, val any) bool {
				entry := val.(*rateLimiterEntry)
				entry.mu.Lock()
				stale := entry.lastAccess.Before(cutoff)
				entry.mu.Unlock()
				if stale {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
