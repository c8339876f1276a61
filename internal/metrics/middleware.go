package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Middleware records the request counter and latency histogram around each
// request. The endpoint label uses the chi route pattern, not the raw path,
// to keep label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = r.URL.Path
		}

		m.Requests.WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.Status())).Inc()
		m.Latency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
