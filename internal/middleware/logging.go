package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bus-maintenance/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader stores the status code so it can be logged.
func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Logging logs every request and records it on m, labelled by route template.
func Logging(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			route := routeName(r)
			m.ObserveRequest(route, rec.status, duration)
			log.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"route":    route,
				"status":   rec.status,
				"duration": duration.String(),
			}).Info("HTTP request")
		})
	}
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
