package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HTTPObserver принимает замеры HTTP запросов
type HTTPObserver interface {
	ObserveHTTP(method, path string, status int, duration time.Duration)
}

// MetricsMiddleware считает запросы по шаблону маршрута, а не по фактическому пути,
// чтобы ID в URL не раздували кардинальность
func MetricsMiddleware(observer HTTPObserver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}
			observer.ObserveHTTP(r.Method, path, wrapped.status, time.Since(start))
		})
	}
}
