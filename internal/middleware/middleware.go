package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/FestivalLedger/FL-Backend/internal/session"
	"github.com/FestivalLedger/FL-Backend/internal/token"
	"github.com/FestivalLedger/FL-Backend/internal/utils"
	"golang.org/x/time/rate"
)

// SessionMiddleware validates the session cookie and injects the username
// into the request context. Handlers behind it can rely on
// utils.GetUsernameFromContext succeeding.
func SessionMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := sessions.CurrentUser(session.FromRequest(w, r))
			if !ok {
				http.Error(w, "Unauthorized. Please log in.", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EdgeGuard protects one path prefix (the data-entry area) at the request
// boundary, before any handler runs. It depends on the token codec alone and
// reads the raw Cookie header itself, so the same check can run in a context
// that has no session manager or cookie-store abstraction.
//
//   - no session cookie       -> redirect to the login path
//   - cookie fails to verify  -> redirect to login, delete the stale cookie
//   - valid cookie            -> pass the request through unchanged
//
// Paths outside the prefix are not intercepted; those rely on in-handler
// guards instead.
func EdgeGuard(codec *token.Codec, prefix, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !underPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			tok, ok := sessionCookie(r.Header.Get("Cookie"))
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			if _, ok := codec.Verify(tok); !ok {
				http.SetCookie(w, &http.Cookie{
					Name:     session.CookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// underPrefix matches whole path segments, so a prefix of "/entry" covers
// "/entry" and "/entry/..." but not "/entryfoo".
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// sessionCookie extracts the session token from a raw Cookie header value.
func sessionCookie(header string) (string, bool) {
	for _, part := range strings.Split(header, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if found && name == session.CookieName && value != "" {
			return value, true
		}
	}
	return "", false
}

// CORSMiddleware echoes the Origin header back only when it is on the
// configured allow-list.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// visitorIdleTimeout is how long a client IP's bucket survives without
// traffic before the sweeper drops it.
const visitorIdleTimeout = 30 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. Used on the login route,
// the only endpoint that accepts credentials. Idle buckets are swept
// periodically so the per-IP map does not grow without bound.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}

	go func() {
		for range time.Tick(visitorIdleTimeout) {
			rl.Sweep(time.Now().Add(-visitorIdleTimeout))
		}
	}()

	return rl
}

// Sweep drops every visitor bucket last seen before the cutoff. An evicted
// client starts over with a full burst on its next request.
func (rl *RateLimiter) Sweep(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rl.limiterFor(ip).Allow() {
			http.Error(w, "Too many requests. Try again shortly.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
