package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"menshub/config"
	domainerrors "menshub/internal/domain/errors"
)

// staleLimiterAge is how long an idle per-client limiter survives before
// the sweep drops it.
const staleLimiterAge = 10 * time.Minute

// RateLimitMiddleware throttles credential endpoints per client IP so a
// password-guessing loop hits the same wall the remote provider raises.
type RateLimitMiddleware struct {
	logger *slog.Logger
	limit  rate.Limit
	burst  int

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware creates a login rate limiter from configuration.
func NewRateLimitMiddleware(cfg *config.Config, logger *slog.Logger) *RateLimitMiddleware {
	perMinute := 10.0
	burst := 10
	if cfg.RateLimit != nil {
		if cfg.RateLimit.LoginPerMinute > 0 {
			perMinute = cfg.RateLimit.LoginPerMinute
		}
		if cfg.RateLimit.Burst > 0 {
			burst = cfg.RateLimit.Burst
		}
	}

	return &RateLimitMiddleware{
		logger:   logger,
		limit:    rate.Limit(perMinute / 60.0),
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
	}
}

// Handle rejects requests exceeding the per-client budget.
func (m *RateLimitMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.allow(c.RealIP()) {
			m.logger.Warn("login rate limit exceeded",
				slog.String("remote_ip", c.RealIP()),
				slog.String("path", c.Request().URL.Path))

			return domainerrors.ErrRateLimited
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) allow(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.limiters[ip]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[ip] = entry
		m.sweepLocked()
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

// sweepLocked drops limiters that have been idle past the stale age.
func (m *RateLimitMiddleware) sweepLocked() {
	cutoff := time.Now().Add(-staleLimiterAge)
	for ip, entry := range m.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(m.limiters, ip)
		}
	}
}
