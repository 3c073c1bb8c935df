// Package api serves the web dashboard: the HTML table page, the JSON
// table endpoint, table state mutations and the live refresh feed. It is
// a thin presentation layer; rows always come from the remote offers
// service exactly as returned.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/offerdeck/offerdeck/pkg/client"
	"github.com/offerdeck/offerdeck/pkg/config"
	"github.com/offerdeck/offerdeck/pkg/livefeed"
	"github.com/offerdeck/offerdeck/pkg/log"
	"github.com/offerdeck/offerdeck/pkg/render"
	"github.com/offerdeck/offerdeck/pkg/session"
)

// Server holds the dashboard's dependencies and the per-browser table
// sessions.
type Server struct {
	cfg       *config.Config
	client    *client.Client
	session   *session.Session
	hub       *livefeed.Hub
	view      *render.TableView
	prefsPath string
	logger    *log.Logger

	mu       sync.Mutex
	sessions map[string]*uiSession
}

// NewServer wires the dashboard server. prefsPath may be empty to disable
// preference persistence.
func NewServer(cfg *config.Config, cl *client.Client, sess *session.Session, hub *livefeed.Hub, prefsPath string) *Server {
	return &Server{
		cfg:       cfg,
		client:    cl,
		session:   sess,
		hub:       hub,
		view:      render.NewTableView(),
		prefsPath: prefsPath,
		logger:    log.ForComponent("api"),
		sessions:  make(map[string]*uiSession),
	}
}

// Close tears down all browser sessions and their controllers.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ui := range s.sessions {
		ui.close()
		delete(s.sessions, id)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, errTitle, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: errTitle, Message: message})
}

// CorsMiddleware adds permissive CORS headers and answers preflight
// requests.
func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
