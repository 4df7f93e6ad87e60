package server

import (
	"io"
	"net/http"
)

const (
	EnvHeader     = "X-Env"
	AccountHeader = "X-Account"
)

// postRelay forwards the raw request body through the transaction relay.
// The payload is opaque to this server; results come back as base64 blobs.
func (s *Server) postRelay(w http.ResponseWriter, r *http.Request) {
	if s.txRelay == nil {
		sendError(w, http.StatusNotFound, "relay not configured")
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	results, err := s.txRelay.Forward(
		r.Context(),
		[]byte(r.Header.Get(EnvHeader)),
		[]byte(r.Header.Get(AccountHeader)),
		payload,
	)
	if err != nil {
		sendError(w, http.StatusBadGateway, err.Error())
		return
	}
	if results == nil {
		results = [][]byte{}
	}
	sendJson(w, map[string][][]byte{"results": results})
}
