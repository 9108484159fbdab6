package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/keylab-io/keyaddr/pkg/ethaddr"
	"github.com/keylab-io/keyaddr/pkg/keysource"
	"github.com/keylab-io/keyaddr/pkg/resolver"
)

// Server exposes address resolution over REST plus a WebSocket event feed.
type Server struct {
	resolver *resolver.Resolver
	router   *mux.Router
	hub      *Hub
	log      *zap.SugaredLogger
}

// NewServer wires the resolver into the HTTP surface and hooks the event
// feed into successful resolutions.
func NewServer(r *resolver.Resolver, log *zap.SugaredLogger) *Server {
	s := &Server{
		resolver: r,
		router:   mux.NewRouter(),
		hub:      NewHub(log),
		log:      log,
	}

	r.OnResolve = func(keyID string, addr common.Address) {
		s.hub.Broadcast(ResolutionEvent{
			Type:      "resolution",
			KeyID:     keyID,
			Address:   ethaddr.ChecksumAddress(addr),
			Timestamp: time.Now().UnixMilli(),
		})
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/v1").Subrouter()
	// Key ids may contain slashes (e.g. projects/x/keys/y), hence the
	// custom pattern instead of a plain {keyID}.
	api.HandleFunc("/addresses/{keyID:.+}", s.handleGetAddress).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// Handler returns the full handler chain, CORS included. Split out from
// Start so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(s.router)
}

// Start runs the hub and serves on addr. Blocks.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.log.Infow("api_listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	keyID := mux.Vars(r)["keyID"]
	if keyID == "" {
		respondError(w, http.StatusBadRequest, "missing key id", "")
		return
	}

	addr, err := s.resolver.Resolve(r.Context(), keyID)
	if err != nil {
		status, label := errorStatus(err)
		respondError(w, status, label, err.Error())
		return
	}

	respondJSON(w, AddressInfo{
		KeyID:   keyID,
		Address: ethaddr.ChecksumAddress(addr),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// errorStatus maps pipeline failures onto HTTP statuses. The key source
// taxonomy drives 404/403/502; key material too short to derive from is also
// the upstream's fault (502); anything else is a bad request.
func errorStatus(err error) (int, string) {
	if errors.Is(err, ethaddr.ErrInvalidPublicKeyLength) {
		return http.StatusBadGateway, "service returned malformed key"
	}
	switch keysource.Classify(err) {
	case keysource.KindNotFound:
		return http.StatusNotFound, "key not found"
	case keysource.KindDisabled:
		return http.StatusForbidden, "key disabled"
	case keysource.KindService:
		return http.StatusBadGateway, "key service unavailable"
	default:
		return http.StatusBadRequest, "bad request"
	}
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, label string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   label,
		Message: message,
	})
}
