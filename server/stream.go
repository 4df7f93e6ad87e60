package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// getAuditStream upgrades the connection and forwards every audit event as
// a JSON message until the client goes away. Events emitted while the
// subscriber buffer is full are dropped, not queued.
func (s *Server) getAuditStream(w http.ResponseWriter, r *http.Request) {
	if s.auditStream == nil {
		sendError(w, http.StatusNotFound, "audit stream not configured")
		return
	}

	connection, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Error upgrading audit stream connection: %v", err)
		return
	}
	defer connection.Close()

	events, cancel := s.auditStream.Subscribe()
	defer cancel()

	// Drain client frames so close messages are processed
	go func() {
		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for event := range events {
		if err := connection.WriteJSON(event); err != nil {
			return
		}
	}
}
