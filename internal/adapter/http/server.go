package adapthttp

import (
	"net/http"

	"gatekeeper/internal/app"

	"github.com/rs/zerolog"
)

// Server is the driving HTTP adapter that routes requests to the
// authentication service.
type Server struct {
	auth *app.AuthService
	log  zerolog.Logger
}

// New creates a Server wired to the given authentication service.
func New(auth *app.AuthService, log zerolog.Logger) *Server {
	return &Server{auth: auth, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/signup", s.handleSignup)
	api.HandleFunc("/login", s.handleLogin)
	api.HandleFunc("/logout", s.handleLogout)
	api.Handle("/me", s.authMiddleware(http.HandlerFunc(s.handleMe)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(withNoCache(root))
}
