package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/agency-web/internal/config"
)

// RateLimiter applies a token bucket per client IP to the routes it wraps.
// The IP comes from c.RealIP, so the server must set an IPExtractor that
// ignores client supplied forwarding headers. A zero config disables limiting.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	limiter := newIPLimiter(cfg, time.Now)
	retryAfter := strconv.Itoa(max(1, int(limiter.perRequest.Round(time.Second)/time.Second)))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", retryAfter)
				return reject(c, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			}
			return next(c)
		}
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one bucket per IP. A bucket idle for a full interval has
// refilled completely, so dropping it changes nothing for that client.
type ipLimiter struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	perRequest time.Duration
	burst      int
	idleAfter  time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

func newIPLimiter(cfg config.RateLimitConfig, now func() time.Time) *ipLimiter {
	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	return &ipLimiter{
		visitors:   map[string]*visitor{},
		perRequest: perRequest,
		burst:      cfg.Requests,
		idleAfter:  max(cfg.Interval, perRequest*time.Duration(cfg.Requests)),
		lastSweep:  now(),
		now:        now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idleAfter {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) >= l.idleAfter {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.perRequest), l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
