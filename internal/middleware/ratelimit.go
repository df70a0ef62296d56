package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig allows Requests per Window for each key, with up to
// Burst requests at once. Requests <= 0 disables limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Burst    int

	// TrustForwarded keys requests by X-Forwarded-For. Only set it behind a
	// proxy that overwrites the header.
	TrustForwarded bool
}

// Enabled reports whether the config limits anything
func (c RateLimitConfig) Enabled() bool {
	return c.Requests > 0 && c.Window > 0
}

// KeyFunc extracts the key requests are grouped by
type KeyFunc func(*http.Request) string

// ClientIP keys requests by the connection's remote address
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ForwardedClientIP keys requests by the first X-Forwarded-For entry,
// falling back to ClientIP when the header is absent
func ForwardedClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return ClientIP(r)
}

// limiterIdleTTL is how long an unused per-key limiter is kept
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type keyedLimiter struct {
	rate  rate.Limit
	burst int

	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	lastCleanup time.Time
}

func (kl *keyedLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if now.Sub(kl.lastCleanup) > limiterIdleTTL {
		for k, e := range kl.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(kl.limiters, k)
			}
		}
		kl.lastCleanup = now
	}

	e, ok := kl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(kl.rate, kl.burst)}
		kl.limiters[key] = e
	}
	e.lastSeen = now

	if e.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := e.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, delay
}

// RateLimit rejects requests once their key exceeds cfg, calling reject to
// write the response. A disabled config returns a pass-through middleware.
func RateLimit(cfg RateLimitConfig, key KeyFunc, reject http.HandlerFunc) func(http.Handler) http.Handler {
	if !cfg.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Requests
	}
	kl := &keyedLimiter{
		rate:        rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:       burst,
		limiters:    make(map[string]*limiterEntry),
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			allowed, retryAfter := kl.allow(k, time.Now())
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			seconds := max(int(retryAfter.Round(time.Second).Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			LoggerFrom(r.Context()).Warn("rate limit exceeded",
				slog.String("key", k),
				slog.Int("retry_after", seconds),
			)
			reject(w, r)
		})
	}
}
