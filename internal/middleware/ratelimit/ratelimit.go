// Package ratelimit caps attempts per client on sensitive routes such as login.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/micca12/Progetto-IW/internal/logging"
)

const MsgTooManyAttempts = "Troppi tentativi, riprova tra 15 minuti"

type window struct {
	start time.Time
	count int
}

// FixedWindowStore allows Limit hits per identifier in each Window. The
// window starts on the first hit and resets once it has elapsed.
type FixedWindowStore struct {
	Limit  int
	Window time.Duration
	Now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

var _ middleware.RateLimiterStore = (*FixedWindowStore)(nil)

func NewFixedWindowStore(limit int, win time.Duration) *FixedWindowStore {
	return &FixedWindowStore{Limit: limit, Window: win, Now: time.Now, windows: map[string]*window{}}
}

func (s *FixedWindowStore) Allow(identifier string) (bool, error) {
	now := s.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[identifier]
	if !ok || now.Sub(w.start) >= s.Window {
		w = &window{start: now}
		s.windows[identifier] = w
	}
	if w.count >= s.Limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// Prune drops expired windows.
func (s *FixedWindowStore) Prune() {
	now := s.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, w := range s.windows {
		if now.Sub(w.start) >= s.Window {
			delete(s.windows, k)
		}
	}
}

// IPExtractor decides which address c.RealIP returns. Without trusted
// proxies only the socket address counts, so X-Forwarded-For and X-Real-IP
// sent by a client cannot change its identity. With proxies, X-Forwarded-For
// is honoured only for hops inside the listed CIDR ranges.
func IPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}

// Middleware keys the store by client IP as resolved by e.IPExtractor.
func Middleware(store middleware.RateLimiterStore) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Richiesta non valida")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logging.FromContext(c.Request().Context()).Warn("rate_limited",
				"status", http.StatusTooManyRequests, "ip", identifier, "path", c.Path())
			return echo.NewHTTPError(http.StatusTooManyRequests, MsgTooManyAttempts)
		},
	})
}
