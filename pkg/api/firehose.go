package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/quarry/pkg/version"
)

const (
	// wsWriteTimeout bounds each outbound write so a stalled peer cannot
	// block the event loop.
	wsWriteTimeout = 5 * time.Second

	// wsPingInterval keeps intermediaries from reaping idle connections.
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The HTTP API is CORS-open, the firehose follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsInitMessage is the first frame sent on every firehose connection.
type wsInitMessage struct {
	Type     string `json:"type"`
	Version  string `json:"version"`
	Datasets int    `json:"datasets"`
}

// wsEventMessage wraps a dataset event for delivery.
type wsEventMessage struct {
	Type  string `json:"type"`
	Event any    `json:"event"`
}

// HandleFirehoseWS upgrades the connection and streams dataset events from
// the realtime hub until the client disconnects. Delivery is best effort:
// events published while this client's buffer is full are dropped for it.
func (s *Server) HandleFirehoseWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Debugf("firehose upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debugf("firehose close: %v", err)
		}
	}()

	id, events := s.hub.Register()
	defer s.hub.Unregister(id)

	init := wsInitMessage{
		Type:     "init",
		Version:  version.APIVersion(),
		Datasets: s.store.Count(),
	}
	if err := s.writeWS(conn, init); err != nil {
		return
	}

	// Read pump: we never expect client frames, but reading is required to
	// process control messages and detect disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

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
			if err := s.writeWS(conn, wsEventMessage{Type: "event", Event: ev}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
