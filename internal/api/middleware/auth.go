package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

// HeaderBusinessID заголовок с контекстом бизнеса вызывающего
const HeaderBusinessID = "X-Business-ID"

const msgMissingBusiness = "missing or invalid X-Business-ID header"

type contextKey string

const businessIDKey contextKey = "businessId"

// Auth требует положительный X-Business-ID и кладет его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderBusinessID))
		id, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || id <= 0 {
			handlers.RespondUnauthorized(w, msgMissingBusiness)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithBusinessID(r.Context(), id)))
	})
}

// WithBusinessID возвращает контекст с ID бизнеса
func WithBusinessID(ctx context.Context, businessID int64) context.Context {
	return context.WithValue(ctx, businessIDKey, businessID)
}

// GetBusinessID достает ID бизнеса, положенный Auth
func GetBusinessID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(businessIDKey).(int64)
	return id, ok && id > 0
}

// MatchBusinessID сверяет businessId из тела запроса с заголовком.
// Отсутствующий в теле businessId берется из контекста.
func MatchBusinessID(ctx context.Context, fromBody *int64) (int64, bool) {
	id, ok := GetBusinessID(ctx)
	if !ok {
		return 0, false
	}
	if fromBody != nil && *fromBody != id {
		return 0, false
	}
	return id, true
}
