package server

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/auditdash/auditdash/internal/utils"
	"github.com/auditdash/auditdash/pkg/store"
)

//go:embed web
var WebFS embed.FS

// Config carries everything the dashboard server needs. Empty credentials
// disable basic auth.
type Config struct {
	Store     *store.Store
	Version   string
	BuildDate string
	Username  string
	Password  string
}

type Server struct {
	store     *store.Store
	version   string
	buildDate string
	username  string
	password  string
}

func New(cfg Config) *Server {
	return &Server{
		store:     cfg.Store,
		version:   cfg.Version,
		buildDate: cfg.BuildDate,
		username:  cfg.Username,
		password:  cfg.Password,
	}
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting audit dashboard on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler builds the full route table. Split out from Start so tests can
// drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API Group. /health stays unauthenticated so liveness probes work.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/version", s.basicAuth(s.handleVersion))
	mux.HandleFunc("GET /api/dates", s.basicAuth(s.handleDates))
	mux.HandleFunc("GET /api/summary", s.basicAuth(s.handleSummary))
	mux.HandleFunc("GET /api/findings", s.basicAuth(s.handleFindings))
	mux.HandleFunc("GET /api/trends", s.basicAuth(s.handleTrends))
	mux.HandleFunc("GET /api/diff/{date1}", s.basicAuth(s.handleDiff))
	mux.HandleFunc("GET /api/diff/{date1}/{date2}", s.basicAuth(s.handleDiff))
	mux.HandleFunc("GET /api/report/{date}", s.basicAuth(s.handleReportsForDate))
	mux.HandleFunc("GET /api/report/{date}/{agent}", s.basicAuth(s.handleReport))
	mux.HandleFunc("GET /api/report/{date}/{agent}/md", s.basicAuth(s.handleMarkdown))

	// Static SPA; unknown paths fall through to the shell page.
	webRoot, err := fs.Sub(WebFS, "web")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", s.basicAuth(s.spaHandler(webRoot)))

	return mux
}

// spaHandler serves the embedded static files, falling back to index.html
// for any path that does not match a file.
func (s *Server) spaHandler(webRoot fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(webRoot))
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name != "" {
			if f, err := webRoot.Open(name); err == nil {
				f.Close()
				fileServer.ServeHTTP(w, r)
				return
			}
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	}
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.username == "" && s.password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.username || pass != s.password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
