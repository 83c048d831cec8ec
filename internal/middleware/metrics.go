package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(method, status string, elapsed time.Duration)
}

// Metrics reports every request to obs.
func Metrics(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			obs.ObserveRequest(r.Method, strconv.Itoa(wrapped.statusCode), time.Since(start))
		})
	}
}
