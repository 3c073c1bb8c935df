package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/offerdeck/offerdeck/pkg/livefeed"
	"github.com/offerdeck/offerdeck/pkg/offers"
	"github.com/offerdeck/offerdeck/pkg/prefs"
	"github.com/offerdeck/offerdeck/pkg/table"
)

const sessionCookie = "offerdeck_session"

// uiSession is one browser's table: a controller wired to the remote
// source plus the presentation preferences. Each browser tab shares the
// session through its cookie.
type uiSession struct {
	id     string
	ctrl   *table.Controller[offers.Offer]
	prefs  *prefs.Prefs
	cancel context.CancelFunc
}

func (u *uiSession) close() {
	u.ctrl.Close()
	u.cancel()
}

// sessionFor returns the browser's table session, creating it (and its
// cookie) on first contact. Filters present in the request URL seed the
// initial state; afterwards state flows only from state mutations.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*uiSession, error) {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		id = c.Value
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if ui, ok := s.sessions[id]; ok {
			return ui, nil
		}
	}

	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	ui, err := s.newSession(id, r)
	if err != nil {
		return nil, err
	}
	s.sessions[id] = ui
	return ui, nil
}

func (s *Server) newSession(id string, r *http.Request) (*uiSession, error) {
	fields := offers.FilterFields()
	seed := table.DecodeFilters(fields, r.URL.Query())

	p := prefs.Default()
	if s.prefsPath != "" {
		p = prefs.Load(s.prefsPath)
	}

	path := s.cfg.PathForRole(string(s.session.Role()))
	ctrl, err := table.NewController(s.client.Source(path), table.Options[offers.Offer]{
		Fields:       fields,
		Columns:      offers.Columns(),
		RowID:        func(o offers.Offer) string { return o.ID },
		SortFieldMap: offers.SortFieldMap(),
		Debounce:     s.cfg.Debounce.Duration,
		PageSize:     s.cfg.PageSize,
		Seed:         seed,
	})
	if err != nil {
		return nil, err
	}

	for key, visible := range p.ColumnVisibility {
		ctrl.State().SetVisible(key, visible)
	}

	ctrl.OnApply(func() {
		s.hub.Broadcast(livefeed.Event{
			Type:      livefeed.TypeRefresh,
			Session:   id,
			TotalDocs: ctrl.Meta().TotalDocs,
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	ctrl.Start(ctx)

	ui := &uiSession{id: id, ctrl: ctrl, prefs: p, cancel: cancel}

	// First load happens immediately rather than after the debounce.
	go func() {
		if err := ctrl.Refresh(ctx); err != nil {
			s.logger.Debugf("initial fetch for session %s: %v", id, err)
		}
	}()

	return ui, nil
}

// savePrefs persists the session's presentation preferences, best effort.
func (s *Server) savePrefs(ui *uiSession) {
	if s.prefsPath == "" {
		return
	}
	if err := ui.prefs.Save(s.prefsPath); err != nil {
		s.logger.Errorf("saving preferences: %v", err)
	}
}
