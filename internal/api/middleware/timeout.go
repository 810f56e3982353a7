package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Timeout ограничивает время обработки запроса через контекст
// Операции, упёршиеся в дедлайн, отдают 503
func Timeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
