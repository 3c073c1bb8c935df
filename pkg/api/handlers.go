package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/offerdeck/offerdeck/pkg/client"
	"github.com/offerdeck/offerdeck/pkg/offers"
	"github.com/offerdeck/offerdeck/pkg/render"
	"github.com/offerdeck/offerdeck/pkg/table"
	"github.com/offerdeck/offerdeck/pkg/version"
)

// HandleHome serves the dashboard page.
func (s *Server) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ui, err := s.sessionFor(w, r)
	if err != nil {
		http.Error(w, fmt.Sprintf("creating table session: %v", err), http.StatusInternalServerError)
		return
	}

	data := s.pageData(ui)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.view.RenderPage(w, data); err != nil {
		s.logger.Errorf("rendering dashboard: %v", err)
	}
}

// HandleTableFragment serves just the table markup for in-place updates.
func (s *Server) HandleTableFragment(w http.ResponseWriter, r *http.Request) {
	ui, err := s.sessionFor(w, r)
	if err != nil {
		http.Error(w, fmt.Sprintf("creating table session: %v", err), http.StatusInternalServerError)
		return
	}

	html, err := s.view.RenderTable(s.pageData(ui))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		s.logger.Debugf("writing table fragment: %v", err)
	}
}

// HandleOfferDetail serves the detail fragment for one offer on the
// current page. The detail is built from already-fetched rows; the
// service exposes no single-offer lookup.
func (s *Server) HandleOfferDetail(w http.ResponseWriter, r *http.Request) {
	ui, err := s.sessionFor(w, r)
	if err != nil {
		http.Error(w, fmt.Sprintf("creating table session: %v", err), http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")
	var found *offers.Offer
	for _, o := range ui.ctrl.Rows() {
		if o.ID == id {
			found = &o
			break
		}
	}
	if found == nil {
		http.NotFound(w, r)
		return
	}

	data := render.DetailData{Offer: *found}
	if user := s.session.User(); user != nil {
		data.CanSign = offers.CanSign(user.Role, *found)
		data.CanDecide = user.Role == offers.RoleCandidate && !found.ESignByCandidate
	}
	html, err := s.view.RenderDetail(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		s.logger.Debugf("writing offer detail: %v", err)
	}
}

// HandleTable serves the table view as JSON.
func (s *Server) HandleTable(w http.ResponseWriter, r *http.Request) {
	ui, err := s.sessionFor(w, r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Session error", err.Error())
		return
	}

	facets := make(map[string]map[string]int)
	for _, col := range ui.ctrl.Columns() {
		if _, ok := ui.ctrl.Fields().ByKey(col.Key); ok {
			facets[col.Key] = ui.ctrl.Facets(col.Key)
		}
	}

	resp := TableResponse{
		Grid:     ui.ctrl.Grid(),
		URLQuery: ui.ctrl.QueryString().Encode(),
		Facets:   facets,
		Selected: ui.ctrl.SelectedIDs(),
	}
	if err := ui.ctrl.LastError(); err != nil {
		resp.Error = client.ServerMessage(err, "Failed to load offers")
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// HandleState applies one table state mutation. The fetch it triggers is
// debounced and asynchronous; the response only acknowledges the change.
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	ui, err := s.sessionFor(w, r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Session error", err.Error())
		return
	}
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}

	state := ui.ctrl.State()
	action := r.PostFormValue("action")
	key := r.PostFormValue("key")

	switch action {
	case "filter":
		if _, ok := ui.ctrl.Fields().ByKey(key); !ok {
			s.writeError(w, http.StatusBadRequest, "Unknown field", key)
			return
		}
		raw := r.PostFormValue("value")
		decoded := table.DecodeFilters(ui.ctrl.Fields(), url.Values{key: {raw}})
		if v, ok := decoded.Get(key); ok {
			state.SetFilter(key, v)
		} else {
			state.SetFilter(key, nil)
		}

	case "toggle-option":
		field, ok := ui.ctrl.Fields().ByKey(key)
		if !ok || field.Kind != table.KindCheckbox {
			s.writeError(w, http.StatusBadRequest, "Not a checkbox field", key)
			return
		}
		var current table.MultiSelect
		if v, ok := state.Filters().Get(key); ok {
			if ms, ok := v.(table.MultiSelect); ok {
				current = ms
			}
		}
		state.SetFilter(key, current.Toggle(r.PostFormValue("value")))

	case "clear":
		state.SetFilters(nil)

	case "sort":
		state.CycleSort(key)

	case "page":
		index, err := strconv.Atoi(r.PostFormValue("page"))
		if err != nil || index < 0 {
			s.writeError(w, http.StatusBadRequest, "Invalid page", r.PostFormValue("page"))
			return
		}
		state.UpdatePagination(func(p table.Pagination) table.Pagination {
			p.Index = index
			return p
		})

	case "page-size":
		size, err := strconv.Atoi(r.PostFormValue("size"))
		if err != nil || size <= 0 {
			s.writeError(w, http.StatusBadRequest, "Invalid page size", r.PostFormValue("size"))
			return
		}
		state.UpdatePagination(func(p table.Pagination) table.Pagination {
			p.Size = size
			return p
		})

	case "visibility":
		visible := r.PostFormValue("on") == "true"
		state.SetVisible(key, visible)
		ui.prefs.SetColumn(key, visible)
		s.savePrefs(ui)

	case "controls":
		ui.prefs.ControlsOpen = r.PostFormValue("open") == "true"
		s.savePrefs(ui)

	case "select":
		ui.ctrl.Select(r.PostFormValue("id"), r.PostFormValue("on") == "true")

	case "select-all":
		ui.ctrl.SelectAllPage(r.PostFormValue("on") == "true")

	default:
		s.writeError(w, http.StatusBadRequest, "Unknown action", action)
		return
	}

	s.writeJSON(w, http.StatusAccepted, StateResponse{Accepted: true})
}

// HandleCreateOffer validates locally, then forwards to the service.
func (s *Server) HandleCreateOffer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	in := offers.CreateOffer{
		Name:     r.PostFormValue("name"),
		Position: r.PostFormValue("position"),
		Salary:   r.PostFormValue("salary"),
		Candidate: offers.Party{
			FirstName: r.PostFormValue("candidateFirstName"),
			LastName:  r.PostFormValue("candidateLastName"),
			Email:     r.PostFormValue("candidateEmail"),
		},
	}
	if errs := in.Validate(); len(errs) > 0 {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"fieldErrors": errs})
		return
	}

	if err := s.client.CreateOffer(r.Context(), in); err != nil {
		s.offerActionError(w, err, "Failed to create offer")
		return
	}
	s.refreshAfterMutation(w, r)
}

// HandleOfferAction accepts, rejects or e-signs the offer named in the
// path, then refreshes the table.
func (s *Server) HandleOfferAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid path", "Offer id is required")
		return
	}

	var err error
	var fallback string
	switch r.PathValue("action") {
	case "accept":
		err = s.client.AcceptOffer(r.Context(), id)
		fallback = "Failed to accept offer"
	case "reject":
		err = s.client.RejectOffer(r.Context(), id)
		fallback = "Failed to reject offer"
	case "e-sign":
		err = s.client.ESignOffer(r.Context(), id)
		fallback = "Failed to sign offer"
	default:
		s.writeError(w, http.StatusNotFound, "Unknown action", r.PathValue("action"))
		return
	}
	if err != nil {
		s.offerActionError(w, err, fallback)
		return
	}
	s.refreshAfterMutation(w, r)
}

func (s *Server) offerActionError(w http.ResponseWriter, err error, fallback string) {
	status := http.StatusBadGateway
	if client.IsUnauthorized(err) {
		status = http.StatusForbidden
	}
	s.writeError(w, status, "Offer action failed", client.ServerMessage(err, fallback))
}

// refreshAfterMutation re-fetches the table immediately so the mutated
// row shows its new server state.
func (s *Server) refreshAfterMutation(w http.ResponseWriter, r *http.Request) {
	ui, err := s.sessionFor(w, r)
	if err == nil {
		if err := ui.ctrl.Refresh(r.Context()); err != nil {
			s.logger.Debugf("refresh after mutation: %v", err)
		}
	}
	s.writeJSON(w, http.StatusOK, StateResponse{Accepted: true})
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	})
}

// pageData assembles the template data for the dashboard and its table
// fragment.
func (s *Server) pageData(ui *uiSession) render.PageData {
	ctrl := ui.ctrl
	filters := ctrl.State().Filters()
	encoded := ctrl.QueryString()

	controls := make([]render.FilterControl, 0, len(ctrl.Fields()))
	for _, field := range ctrl.Fields() {
		fc := render.FilterControl{Field: field, Raw: encoded.Get(field.Key)}
		switch field.Kind {
		case table.KindCheckbox:
			if v, ok := filters.Get(field.Key); ok {
				if ms, ok := v.(table.MultiSelect); ok {
					fc.Active = []string(ms)
				}
			}
			fc.Facets = ctrl.Facets(field.Key)
		case table.KindTimeRange:
			if v, ok := filters.Get(field.Key); ok {
				if dr, ok := v.(table.DateRange); ok {
					if !dr.From.IsZero() {
						fc.From = dr.From.Format(table.DateLayout)
					}
					if !dr.To.IsZero() {
						fc.To = dr.To.Format(table.DateLayout)
					}
				}
			}
		}
		controls = append(controls, fc)
	}

	data := render.PageData{
		Title:        "Offers",
		ControlsOpen: ui.prefs.ControlsOpen,
		Controls:     controls,
		Grid:         ctrl.Grid(),
		QueryString:  encoded.Encode(),
		Version:      version.Version,
	}
	if user := s.session.User(); user != nil {
		data.UserName = user.FirstName + " " + user.LastName
		data.UserRole = string(user.Role)
		data.CanCreate = user.Role == offers.RoleRecruiter
		data.CanSignIDs = make(map[string]bool)
		for _, o := range ctrl.Rows() {
			if offers.CanSign(user.Role, o) {
				data.CanSignIDs[o.ID] = true
			}
		}
	}
	if err := ctrl.LastError(); err != nil {
		data.ErrorMessage = client.ServerMessage(err, "Failed to load offers; showing previously loaded data")
	}
	return data
}
