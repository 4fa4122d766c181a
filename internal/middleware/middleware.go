package middleware

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"https://empoweredvote.github.io",
}

// AllowedOrigins reads CORS_ALLOWED_ORIGINS (comma separated), falling back
// to the local dev origins.
func AllowedOrigins() map[string]struct{} {
	list := defaultOrigins
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		list = strings.Split(raw, ",")
	}
	allowed := make(map[string]struct{}, len(list))
	for _, o := range list {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = struct{}{}
		}
	}
	return allowed
}

// CORS echoes the origin back only if it is on the allow-list. A "*" entry
// admits every origin.
func CORS(allowed map[string]struct{}) func(http.Handler) http.Handler {
	_, wildcard := allowed["*"]
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			_, ok := allowed[origin]
			if origin != "" && (ok || wildcard) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}

			w.Header().Set("Access-Control-Expose-Headers", "X-Data-Source, Retry-After, Cache-Control")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware applies CORS with the allow-list from the environment.
func CORSMiddleware(next http.Handler) http.Handler {
	return CORS(AllowedOrigins())(next)
}

// ClientLimiter throttles callers by remote IP with a token bucket each.
// It protects the service itself; upstream quota is enforced separately.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter allows rps requests per second per IP with the given burst.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

// ClientLimiterFromEnv reads CLIENT_RPS and CLIENT_BURST. It returns nil
// when CLIENT_RPS is unset or not positive.
func ClientLimiterFromEnv() *ClientLimiter {
	rps, err := strconv.ParseFloat(os.Getenv("CLIENT_RPS"), 64)
	if err != nil || rps <= 0 {
		return nil
	}
	burst, err := strconv.Atoi(os.Getenv("CLIENT_BURST"))
	if err != nil || burst <= 0 {
		burst = int(rps) + 1
	}
	return NewClientLimiter(rps, burst)
}

func (l *ClientLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Sweep forgets clients idle for longer than the idle window.
func (l *ClientLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	n := 0
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
			n++
		}
	}
	return n
}

// Handler rejects over-quota callers with 429.
func (l *ClientLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
