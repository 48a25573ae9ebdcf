package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gbax/gbax-core/internal/logger"
)

// AbuseTracker keeps per-IP counters over a fixed window so the middleware can
// flag brute-force key guessing and shed abusive request rates. Counters reset
// wholesale when the window rolls over.
type AbuseTracker struct {
	mu          sync.Mutex
	failedAuth  map[string]int
	requests    map[string]int
	windowStart time.Time
}

func NewAbuseTracker() *AbuseTracker {
	return &AbuseTracker{
		failedAuth:  make(map[string]int),
		requests:    make(map[string]int),
		windowStart: time.Now(),
	}
}

// RecordFailedAuth counts a rejected API key and alerts once the caller
// crosses the brute-force threshold.
func (a *AbuseTracker) RecordFailedAuth(ip string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rollWindow()
	a.failedAuth[ip]++

	if a.failedAuth[ip] >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth,
			"ip", ip,
			"count", a.failedAuth[ip])
	}
}

// Allow counts one request and reports whether the caller is still under the
// per-window rate budget.
func (a *AbuseTracker) Allow(ip string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rollWindow()
	a.requests[ip]++

	if a.requests[ip] <= RateLimitPerWindow {
		return true
	}
	if a.requests[ip]%RateLimitLogSample == 0 { // sampled to keep the log readable
		slog.Warn(SecurityAlertHighRate,
			"ip", ip,
			"count_in_window", a.requests[ip])
	}
	return false
}

// rollWindow resets the counters once the window has elapsed. Caller holds mu.
func (a *AbuseTracker) rollWindow() {
	if time.Since(a.windowStart) > TrackingWindow {
		a.failedAuth = make(map[string]int)
		a.requests = make(map[string]int)
		a.windowStart = time.Now()
	}
}

// AuthMiddleware rejects requests that do not carry the configured API key.
// Health, metrics and version endpoints stay public for probes and scrapers.
func AuthMiddleware(apiKey string, trustedProxies []string, tracker *AbuseTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range PublicPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			provided := r.Header.Get(HeaderAPIKey)

			// Constant time comparison so response timing leaks nothing
			// about key prefixes.
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				ip := clientIP(r, trustedProxies)
				tracker.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", provided != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware sheds requests from callers over the per-window budget.
func RateLimitMiddleware(trustedProxies []string, tracker *AbuseTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tracker.Allow(clientIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps the request body size.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the caller's address. X-Forwarded-For is honored only when
// the direct peer is a trusted proxy, and then only its rightmost hop, which
// is the address the trusted proxy itself saw.
func clientIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	for _, proxy := range trustedProxies {
		if proxy != remoteIP {
			continue
		}
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
		break
	}

	return remoteIP
}

// SecurityHeadersMiddleware sets the standard browser hardening headers on
// every response.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
