package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kiln-games/depthforge/internal/logger"
)

// Abuse thresholds. Counters live in a fixed window that resets as a
// whole rather than sliding per client.
const (
	abuseWindow          = 5 * time.Minute
	maxRequestsPerWindow = 1000
	authFailureAlertAt   = 5
	rateAlertSampleEvery = 100
)

// ipActivity is one client's counters within the current window.
type ipActivity struct {
	requests     int
	authFailures int
}

// AbuseDetector tracks per-IP request volume and failed API key checks.
// It backs both the rate limit and the failed-auth alerts.
type AbuseDetector struct {
	mu          sync.Mutex
	byIP        map[string]*ipActivity
	windowStart time.Time
	now         func() time.Time
}

func NewAbuseDetector() *AbuseDetector {
	return &AbuseDetector{
		byIP:        make(map[string]*ipActivity),
		windowStart: time.Now(),
		now:         time.Now,
	}
}

// activity rotates the window when it has lapsed and returns the
// counters for ip. Caller must hold the mutex.
func (d *AbuseDetector) activity(ip string) *ipActivity {
	if d.now().Sub(d.windowStart) > abuseWindow {
		d.byIP = make(map[string]*ipActivity)
		d.windowStart = d.now()
	}
	act, ok := d.byIP[ip]
	if !ok {
		act = &ipActivity{}
		d.byIP[ip] = act
	}
	return act
}

// RecordAuthFailure counts a failed API key check and alerts once the
// per-window threshold is reached.
func (d *AbuseDetector) RecordAuthFailure(ip string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	act := d.activity(ip)
	act.authFailures++
	if act.authFailures >= authFailureAlertAt {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", act.authFailures)
	}
}

// Allow counts a request and reports whether the client is still under
// the per-window rate limit. Blocked traffic logs sampled alerts so a
// flood cannot flood the log as well.
func (d *AbuseDetector) Allow(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	act := d.activity(ip)
	act.requests++
	if act.requests <= maxRequestsPerWindow {
		return true
	}
	if act.requests%rateAlertSampleEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", act.requests)
	}
	return false
}

// AuthMiddleware requires the API key header on every route that is not
// public. Failures feed the abuse detector.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *AbuseDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			// Constant time comparison so the check leaks nothing about
			// the key.
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r, trustedProxies)
			detector.RecordAuthFailure(ip)

			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
				"has_key", provided != "",
				"ip", ip)

			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RateLimitMiddleware rejects clients that exhausted their per-window
// request budget.
func RateLimitMiddleware(trustedProxies []string, detector *AbuseDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.Allow(clientIP(r, trustedProxies)) {
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

// clientIP resolves the caller's address. X-Forwarded-For is honored
// only when the direct peer is a trusted proxy, and then only its
// rightmost hop, which is the address the proxy itself saw.
func clientIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if !slices.Contains(trustedProxies, remoteIP) {
		return remoteIP
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// securityHeaders go on every response.
var securityHeaders = map[string]string{
	HeaderContentType:    HeaderValueNoSniff,
	HeaderFrameOptions:   HeaderValueSameOrigin,
	HeaderXSSProtection:  HeaderValueXSSBlock,
	HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
}

// SecurityHeadersMiddleware sets the browser hardening headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for header, value := range securityHeaders {
				w.Header().Set(header, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
