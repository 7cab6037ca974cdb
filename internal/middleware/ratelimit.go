package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/noah-isme/study-plan-api/internal/service"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
	"github.com/noah-isme/study-plan-api/pkg/response"
)

// idleLimiterTTL bounds how long an unused per-user bucket is retained.
const idleLimiterTTL = 10 * time.Minute

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per authenticated user.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	users    map[string]*userLimiter
	metrics  *service.MetricsService
	now      func() time.Time
	lastScan time.Time
}

// NewRateLimiter allows perMinute requests per user with an equal burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute int, metrics *service.MetricsService) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   perMinute,
		users:   make(map[string]*userLimiter),
		metrics: metrics,
		now:     time.Now,
	}
}

// Allow reports whether key may proceed now; when not, it returns the suggested wait.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	if l == nil || l.burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.evictIdle(now)

	entry, ok := l.users[key]
	if !ok {
		entry = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.users[key] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Minute
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

func (l *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastScan) < idleLimiterTTL {
		return
	}
	l.lastScan = now
	for key, entry := range l.users {
		if now.Sub(entry.lastSeen) > idleLimiterTTL {
			delete(l.users, key)
		}
	}
}

// Middleware rejects requests over the caller's budget with 429 and Retry-After.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if claims, ok := CurrentClaims(c); ok {
			key = claims.UserID
		}
		allowed, wait := l.Allow(key)
		if allowed {
			c.Next()
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		l.metrics.RecordRateLimited(path)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		response.Error(c, appErrors.Clone(appErrors.ErrTooManyRequest, "rate limit exceeded, retry later"))
		c.Abort()
	}
}
