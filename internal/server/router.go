package server

import (
	"net/http"
	"strings"

	"github.com/openispb/ispbmap/internal/server/middleware"
	"github.com/openispb/ispbmap/internal/server/response"
)

// Handler builds the full request handler with routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	stack := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if s.config.CORSEnabled {
		cors := middleware.DefaultCORSConfig()
		if len(s.config.CORSOrigins) > 0 {
			cors.AllowedOrigins = s.config.CORSOrigins
		}
		stack = append(stack, middleware.CORS(cors))
	}

	return middleware.Chain(stack...)(mux)
}

// registerRoutes wires all endpoints onto the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	prefix := strings.TrimSuffix(s.config.PathPrefix, "/")

	// Operational endpoints live outside the API prefix.
	mux.HandleFunc("/health", get(s.handlers.HandleHealth))
	mux.HandleFunc("/ready", get(s.handlers.HandleReady))

	mux.HandleFunc(prefix+"/participants", get(s.handlers.HandleListParticipants))
	mux.HandleFunc(prefix+"/participants/{ispb}", get(s.handlers.HandleGetParticipant))
	mux.HandleFunc(prefix+"/stats", get(s.handlers.HandleStats))

	// Browsers ask for this on every visit. Keep it quiet.
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			response.OK(w, map[string]string{
				"service":      "ispbmap",
				"participants": prefix + "/participants",
				"participant":  prefix + "/participants/{ispb}",
				"stats":        prefix + "/stats",
			})
			return
		}
		response.NotFound(w, "Not found", "Unknown endpoint "+r.URL.Path)
	})
}

// get rejects any method but GET with the standard error envelope. The
// stdlib mux answers 405 in plain text; the API promises JSON everywhere.
func get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h(w, r)
	}
}
