package server

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialgraph/audit"
	"socialgraph/graph"
	"socialgraph/monitoring"
	"socialgraph/relay"
	"socialgraph/utils"
)

const (
	ServiceName    = "socialgraph"
	ServiceVersion = "1.0.0"
	ServiceIcon    = "/static/icon.png"
)

// CallerHeader carries the identity the host environment authenticated.
// The server trusts it; authenticating it is the host's job, the guard in
// the graph service only checks it against the subject of each call.
const CallerHeader = "X-Caller"

// Server is the HTTP adapter around the graph service. It owns no graph
// state and no invariants; it only parses requests, forwards the asserted
// caller identity, and serializes results.
type Server struct {
	service     *graph.Service
	auditStream *audit.Stream
	txRelay     *relay.Relay
}

func NewServer(service *graph.Service, auditStream *audit.Stream, txRelay *relay.Relay) *Server {
	return &Server{
		service:     service,
		auditStream: auditStream,
		txRelay:     txRelay,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	routes := make([]string, 0, 18)
	handle := func(method, path string, handler http.HandlerFunc) {
		mux.HandleFunc(method+" "+path, handler)
		routes = append(routes, path)
	}

	handle("POST", "/graph/follow", s.postFollow)
	handle("POST", "/graph/unfollow", s.postUnfollow)
	handle("POST", "/graph/block", s.postBlock)
	handle("POST", "/graph/unblock", s.postUnblock)
	handle("GET", "/graph/isFollowing", s.getIsFollowing)
	handle("GET", "/graph/following", s.getFollowingList)
	handle("GET", "/graph/followers", s.getFollowerList)
	handle("GET", "/graph/isBlocked", s.getIsBlocked)
	handle("GET", "/graph/blocked", s.getBlockedList)
	handle("POST", "/permission", s.postPermission)
	handle("GET", "/permission", s.getPermission)
	handle("POST", "/metadata", s.postMetadata)
	handle("GET", "/metadata", s.getMetadata)
	handle("GET", "/chat/can", s.getCanChat)
	handle("POST", "/relay", s.postRelay)
	handle("GET", "/descriptor", s.getDescriptor)
	handle("GET", "/audit/stream", s.getAuditStream)
	mux.Handle("GET /metrics", promhttp.Handler())

	return monitoring.NewPrometheusMiddleware(mux, routes...)
}

func (s *Server) Run() {
	port := utils.IntFromString(os.Getenv("SERVER_PORT"), 3333)

	err := http.ListenAndServe(fmt.Sprintf(":%d", port), s.Handler())
	if errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("server closed\n")
	} else if err != nil {
		fmt.Printf("error starting server: %s\n", err)
		os.Exit(1)
	}
}

func (s *Server) postFollow(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)
	queryParams := r.URL.Query()
	follower := graph.Identity(*getQueryItem(queryParams, "follower"))
	following := graph.Identity(*getQueryItem(queryParams, "following"))

	if err := s.service.Follow(r.Context(), caller, follower, following); err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendOk(w)
}

func (s *Server) postUnfollow(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)
	queryParams := r.URL.Query()
	follower := graph.Identity(*getQueryItem(queryParams, "follower"))
	following := graph.Identity(*getQueryItem(queryParams, "following"))

	if err := s.service.Unfollow(r.Context(), caller, follower, following); err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendOk(w)
}

func (s *Server) postBlock(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)
	queryParams := r.URL.Query()
	blocker := graph.Identity(*getQueryItem(queryParams, "blocker"))
	blocked := graph.Identity(*getQueryItem(queryParams, "blocked"))

	if err := s.service.BlockUser(r.Context(), caller, blocker, blocked); err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendOk(w)
}

func (s *Server) postUnblock(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)
	queryParams := r.URL.Query()
	blocker := graph.Identity(*getQueryItem(queryParams, "blocker"))
	blocked := graph.Identity(*getQueryItem(queryParams, "blocked"))

	if err := s.service.UnblockUser(r.Context(), caller, blocker, blocked); err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendOk(w)
}

func (s *Server) getIsFollowing(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	follower := graph.Identity(*getQueryItem(queryParams, "follower"))
	following := graph.Identity(*getQueryItem(queryParams, "following"))

	isFollowing, err := s.service.IsFollowing(r.Context(), follower, following)
	if err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendJson(w, map[string]bool{"following": isFollowing})
}

func (s *Server) getFollowingList(w http.ResponseWriter, r *http.Request) {
	user := graph.Identity(*getQueryItem(r.URL.Query(), "user"))

	list, err := s.service.FollowingList(r.Context(), user)
	if err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendJson(w, identityListResponse(list))
}

func (s *Server) getFollowerList(w http.ResponseWriter, r *http.Request) {
	user := graph.Identity(*getQueryItem(r.URL.Query(), "user"))

	list, err := s.service.FollowerList(r.Context(), user)
	if err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendJson(w, identityListResponse(list))
}

func (s *Server) getIsBlocked(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)
	queryParams := r.URL.Query()
	blocker := graph.Identity(*getQueryItem(queryParams, "blocker"))
	blocked := graph.Identity(*getQueryItem(queryParams, "blocked"))

	isBlocked, err := s.service.IsBlocked(r.Context(), caller, blocker, blocked)
	if err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendJson(w, map[string]bool{"blocked": isBlocked})
}

func (s *Server) getBlockedList(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)
	blocker := graph.Identity(*getQueryItem(r.URL.Query(), "user"))

	list, err := s.service.BlockedList(r.Context(), caller, blocker)
	if err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendJson(w, identityListResponse(list))
}

func (s *Server) postPermission(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)
	queryParams := r.URL.Query()
	user := graph.Identity(*getQueryItem(queryParams, "user"))

	value, err := strconv.ParseUint(*getQueryItem(queryParams, "value"), 10, 32)
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid value param")
		return
	}

	if err := s.service.SetPermission(r.Context(), caller, user, graph.Permission(value)); err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendOk(w)
}

func (s *Server) getPermission(w http.ResponseWriter, r *http.Request) {
	user := graph.Identity(*getQueryItem(r.URL.Query(), "user"))

	value, err := s.service.GetPermission(r.Context(), user)
	if err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendJson(w, map[string]any{
		"permission": uint32(value),
		"policy":     value.Policy().String(),
	})
}

func (s *Server) postMetadata(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)
	queryParams := r.URL.Query()
	user := graph.Identity(*getQueryItem(queryParams, "user"))

	decoded, err := hex.DecodeString(*getQueryItem(queryParams, "value"))
	if err != nil || len(decoded) != graph.MetadataSize {
		sendError(w, http.StatusBadRequest, "invalid metadata value")
		return
	}
	var blob graph.Metadata
	copy(blob[:], decoded)

	if err := s.service.SetMetadata(r.Context(), caller, user, blob); err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendOk(w)
}

func (s *Server) getMetadata(w http.ResponseWriter, r *http.Request) {
	user := graph.Identity(*getQueryItem(r.URL.Query(), "user"))

	blob, err := s.service.GetMetadata(r.Context(), user)
	if err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendJson(w, map[string]string{"metadata": hex.EncodeToString(blob[:])})
}

func (s *Server) getCanChat(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	sender := graph.Identity(*getQueryItem(queryParams, "sender"))
	receiver := graph.Identity(*getQueryItem(queryParams, "receiver"))

	canChat, err := s.service.CanChat(r.Context(), sender, receiver)
	if err != nil {
		sendError(w, errorStatus(err), err.Error())
		return
	}
	sendJson(w, map[string]bool{"canChat": canChat})
}

func (s *Server) getDescriptor(w http.ResponseWriter, r *http.Request) {
	sendJson(w, map[string]string{
		"name":    ServiceName,
		"version": ServiceVersion,
		"icon":    ServiceIcon,
	})
}

func callerIdentity(r *http.Request) graph.Identity {
	return graph.Identity(r.Header.Get(CallerHeader))
}

func identityListResponse(list []graph.Identity) map[string][]graph.Identity {
	if list == nil {
		list = []graph.Identity{}
	}
	return map[string][]graph.Identity{"identities": list}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, graph.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, graph.ErrSelfRelation),
		errors.Is(err, graph.ErrBlockedParty),
		errors.Is(err, graph.ErrNotFollowing),
		errors.Is(err, graph.ErrNotBlocked):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
