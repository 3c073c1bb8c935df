package api

import (
	"time"

	"github.com/offerdeck/offerdeck/pkg/table"
)

// TableResponse is the JSON form of the current table view. URLQuery is
// the canonical encoding of the active filters, used by the browser to
// keep the address bar in sync (one way, state to URL).
type TableResponse struct {
	Grid     table.Grid                `json:"grid"`
	URLQuery string                    `json:"urlQuery"`
	Facets   map[string]map[string]int `json:"facets,omitempty"`
	Selected []string                  `json:"selected"`
	Error    string                    `json:"error,omitempty"`
}

// StateResponse acknowledges a table state mutation. The fetch it
// triggers is debounced; listeners learn about new rows over the live
// feed.
type StateResponse struct {
	Accepted bool `json:"accepted"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
