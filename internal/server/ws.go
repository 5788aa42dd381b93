package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/armorup/bew/internal/broker"
	"github.com/armorup/bew/internal/metrics"
)

// clientMessage is the JSON structure received from realtime clients.
type clientMessage struct {
	Action  string `json:"action"`
	Channel string `json:"channel,omitempty"`
}

// handleWS upgrades the connection, registers it with the broker and
// subscribes it to the lobby channel plus any channel named in the
// query (typically a game id). The broker's per-connection buffer is
// drained by a single writer goroutine.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}

	connID := uuid.New().String()
	bc := s.Broker.AddConnection(connID)
	s.Broker.Subscribe(connID, broker.DefaultChannel)
	if ch := r.URL.Query().Get("channel"); ch != "" {
		s.Broker.Subscribe(connID, ch)
	}
	metrics.ActiveConnections.Inc()

	defer func() {
		s.Broker.RemoveConnection(connID)
		metrics.ActiveConnections.Dec()
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := r.Context()
	go writePump(ctx, conn, bc)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Action {
		case "subscribe":
			if msg.Channel != "" {
				s.Broker.Subscribe(connID, msg.Channel)
			}
		case "unsubscribe":
			if msg.Channel != "" {
				s.Broker.Unsubscribe(connID, msg.Channel)
			} else {
				s.Broker.UnsubscribeAll(connID)
			}
		}
	}
}

// writePump reads from the broker stream and writes to the WebSocket
// connection. Exits when the stream is closed or a write fails.
func writePump(ctx context.Context, conn *websocket.Conn, bc *broker.Conn) {
	for msg := range bc.Messages() {
		if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
			return
		}
	}
}
