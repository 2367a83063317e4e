package adapthttp

import (
	"net/http"

	"pomodoro/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the optional SSO login configuration.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	sessions   *app.SessionService
	stats      *app.StatsService
	tasks      *app.TaskService
	settings   *app.SettingsService
	authSvc    *app.AuthService
	oidcConfig OIDCConfig
	webDir     string
}

// New creates a Server wired to the given application services.
func New(ss *app.SessionService, st *app.StatsService, ts *app.TaskService, se *app.SettingsService, as *app.AuthService, oc OIDCConfig, webDir string) *Server {
	return &Server{sessions: ss, stats: st, tasks: ts, settings: se, authSvc: as, oidcConfig: oc, webDir: webDir}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/register", s.handleRegister)
	api.HandleFunc("/login", s.handleLogin)
	api.HandleFunc("/logout", s.handleLogout)
	api.HandleFunc("/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/me", s.handleMe)
	protected.HandleFunc("/settings", s.handleSettings)
	protected.HandleFunc("/sessions", s.handleSessionSubmit)
	protected.HandleFunc("/sessions/summary", s.handleSessionSummary)
	protected.HandleFunc("/tasks", s.handleTasks)
	protected.HandleFunc("/tasks/", s.handleTaskByID)
	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
