package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/pkg/ratelimit"
)

const msgRateLimited = "too many requests, try again later"

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RateLimit ограничивает частоту запросов по IP клиента.
// Если хранилище лимитов недоступно, failOpen решает, пропускать ли запрос.
func RateLimit(limiter ratelimit.Limiter, failOpen bool, log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Error("RateLimit: limiter error for %s: %v", key, err)
				if !failOpen {
					handlers.RespondInternalError(w)
					return
				}
				allowed = true
			}
			if !allowed {
				log.Warn("RateLimit: %s %s rejected for %s", r.Method, r.URL.Path, key)
				handlers.RespondTooManyRequests(w, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP адрес клиента: X-Real-Ip, первый адрес X-Forwarded-For или RemoteAddr
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
