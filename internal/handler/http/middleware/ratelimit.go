package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

type RateLimitOptions struct {
	// Interval is the time needed to earn back one request.
	Interval  time.Duration
	Burst     int
	CacheSize int
	TTL       time.Duration
	// TrustHeaders takes the client address from X-Forwarded-For / X-Real-Ip.
	TrustHeaders bool
}

// RateLimit keeps one token bucket per client address.
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	cache := expirable.NewLRU[string, *rate.Limiter](opts.CacheSize, nil, opts.TTL)

	getLimiter := func(addr string) *rate.Limiter {
		limiter, exists := cache.Get(addr)
		if !exists {
			limiter = rate.NewLimiter(rate.Every(opts.Interval), opts.Burst)
			cache.Add(addr, limiter)
		}
		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := getLimiter(clientAddr(r, opts.TrustHeaders))

			reservation := limiter.Reserve()
			if !reservation.OK() {
				response.Problem(w, r, apperror.RateLimited("too many requests"))
				return
			}
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				response.Problem(w, r, apperror.RateLimited("too many requests, retry in %d seconds", int(math.Ceil(delay.Seconds()))))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(opts.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request, trustHeaders bool) string {
	if trustHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			return strings.TrimSpace(ips[0])
		}
		if xri := r.Header.Get("X-Real-Ip"); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
