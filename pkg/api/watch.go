package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The JSON API is already world-readable; the watch stream carries the
	// same public listing data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	watchWriteWait  = 10 * time.Second
	watchPingPeriod = 30 * time.Second
)

// HandleWatch upgrades to a websocket and streams newly stored listings as
// JSON events until the client disconnects.
func (s *Server) HandleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debugf("closing watch connection: %v", err)
		}
	}()

	if s.hub == nil {
		// No hub wired; hold the connection open until the client leaves.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}

	id, events := s.hub.Register()
	defer s.hub.Unregister(id)

	// Reader goroutine: detect client disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(watchPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				logger.Debugf("writing watch event: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
