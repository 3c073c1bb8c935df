package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from the same process; cross-origin use is
	// already allowed by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// HandleLive upgrades to a WebSocket and pushes refresh events until the
// client disconnects. Clients treat every event as "re-fetch the table
// fragment"; missed events are harmless.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debugf("websocket upgrade: %v", err)
		return
	}

	id, events := s.hub.Register()
	s.logger.Debugf("live feed listener %d connected (%d active)", id, s.hub.Size())

	defer func() {
		s.hub.Unregister(id)
		if err := conn.Close(); err != nil {
			s.logger.Debugf("closing websocket: %v", err)
		}
	}()

	// Reader goroutine: we never expect messages, but reading is what
	// detects the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debugf("live feed write: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
