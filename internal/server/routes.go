package server

import (
	"net/http"

	"github.com/jackzampolin/timetable/internal/svcctx"
)

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// limitBody caps request bodies at server.max_body_bytes. The limit is
// read per request so config reloads apply without a restart.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) maxBodyBytes() int64 {
	if s.configMgr != nil {
		if n := s.configMgr.Get().Server.MaxBodyBytes; n > 0 {
			return n
		}
	}
	return DefaultMaxBodyBytes
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the session store or profile
// registry is missing.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.sessions == nil || s.profiles == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
