// package proxysrv exposes the bridge over HTTP: the /rpc proxy routes the
// UI calls for balance, tick and broadcast, plus the treasury fund/payout
// routes.
package proxysrv

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/aigarth-label/qubic-bridge/journal"
	"github.com/aigarth-label/qubic-bridge/logger"
	"github.com/aigarth-label/qubic-bridge/qubic"
	"github.com/aigarth-label/qubic-bridge/rpc/nodeclient"
	"github.com/aigarth-label/qubic-bridge/treasury"
	"github.com/aigarth-label/qubic-bridge/util/ratelimit"

	"github.com/gorilla/mux"
)

type Config struct {
	Bind string

	// requests per minute from a single IP. Default 500.
	RateLimit int
}

type Server struct {
	node   *nodeclient.Client
	bridge *qubic.Bridge
	store  *treasury.Store
	jrnl   *journal.Journal // nil disables the transfer journal

	limit *ratelimit.Limiter
	srv   *http.Server
	log   *logger.Log
}

func New(cfg Config, node *nodeclient.Client, bridge *qubic.Bridge, store *treasury.Store, jrnl *journal.Journal, log *logger.Log) *Server {
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 500
	}
	if log == nil {
		log = logger.DiscardLog
	}

	s := &Server{
		node:   node,
		bridge: bridge,
		store:  store,
		jrnl:   jrnl,
		limit:  ratelimit.New(cfg.RateLimit),
		log:    log,
	}

	r := mux.NewRouter()
	r.Use(s.limitMiddleware)

	r.HandleFunc("/rpc/balance", s.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/rpc/tick-info", s.handleTickInfo).Methods(http.MethodGet)
	r.HandleFunc("/rpc/broadcast", s.handleBroadcast).Methods(http.MethodPost)
	r.HandleFunc("/fund", s.handleFund).Methods(http.MethodPost)
	r.HandleFunc("/fund", s.handleFundBalance).Methods(http.MethodGet)
	r.HandleFunc("/payout", s.handlePayout).Methods(http.MethodPost)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:    cfg.Bind,
		Handler: r,
	}

	return s
}

// Run blocks serving HTTP until Shutdown.
func (s *Server) Run() error {
	s.log.Infof("rpc proxy listening on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) limitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !s.limit.Allow(ip, 1) {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error": "too many requests",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
}

func internalError(w http.ResponseWriter, log *logger.Log, op string, err error) {
	log.Errf("%s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error": "internal server error",
	})
}
