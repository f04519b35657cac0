// Package server exposes the control surface: login, runtime configuration,
// bot toggling and the read-only statistics and trade log views.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"solana-sniper/internal/config"
	"solana-sniper/internal/engine"
	"solana-sniper/internal/jupiter"
	"solana-sniper/internal/proxy"
	"solana-sniper/internal/solana"
	"solana-sniper/internal/state"
	"solana-sniper/internal/wallet"
)

// ProxySource lists upstream proxy URLs for the rotation pool.
type ProxySource interface {
	FetchProxies(ctx context.Context) ([]string, error)
}

// Options configures a Server. The factory fields default to the production
// Jupiter and RPC clients and exist so tests can substitute fakes.
type Options struct {
	Engine   *engine.Engine
	Stats    *state.TradeStats
	TradeLog *state.TradeLog

	Email     string
	Password  string
	JWTSecret []byte

	Proxies ProxySource

	NewQuoteClient func(pool *proxy.Pool) engine.QuoteClient
	NewSubmitter   func(rpcEndpoint string) engine.Submitter

	Logger *log.Logger
}

// Server wires the HTTP control surface to the engine and its state
// aggregates. All handler state behind mu: the applied config and the wallet
// built from the last accepted update.
type Server struct {
	engine   *engine.Engine
	stats    *state.TradeStats
	tradeLog *state.TradeLog

	email     string
	password  string
	jwtSecret []byte

	proxies        ProxySource
	newQuoteClient func(pool *proxy.Pool) engine.QuoteClient
	newSubmitter   func(rpcEndpoint string) engine.Submitter

	logger *log.Logger

	mu      sync.Mutex
	cfg     config.Config
	wallet  *wallet.Wallet
	revoked map[string]struct{}
}

// New creates a Server. Engine, Stats and TradeLog are required.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	newQuoteClient := opts.NewQuoteClient
	if newQuoteClient == nil {
		newQuoteClient = func(pool *proxy.Pool) engine.QuoteClient {
			return jupiter.NewClient(pool, jupiter.WithLogger(logger))
		}
	}
	newSubmitter := opts.NewSubmitter
	if newSubmitter == nil {
		newSubmitter = func(rpcEndpoint string) engine.Submitter {
			return solana.NewHTTPClient(rpcEndpoint)
		}
	}

	return &Server{
		engine:         opts.Engine,
		stats:          opts.Stats,
		tradeLog:       opts.TradeLog,
		email:          opts.Email,
		password:       opts.Password,
		jwtSecret:      opts.JWTSecret,
		proxies:        opts.Proxies,
		newQuoteClient: newQuoteClient,
		newSubmitter:   newSubmitter,
		logger:         logger,
		revoked:        make(map[string]struct{}),
	}
}

// Routes builds the control-surface mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.Handle("PUT /toggleBot", s.requireAuth(http.HandlerFunc(s.handleToggleBot)))
	mux.Handle("POST /set-bot-config", s.requireAuth(http.HandlerFunc(s.handleSetConfig)))
	mux.HandleFunc("GET /getStats", s.handleGetStats)
	mux.HandleFunc("GET /getTradeLogs", s.handleGetTradeLogs)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleToggleBot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	configured := s.wallet != nil
	s.mu.Unlock()

	if !configured {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "private key is invalid or not set",
		})
		return
	}

	var active bool
	if s.engine.Active() {
		s.engine.Stop()
		active = false
	} else {
		s.engine.Start()
		active = true
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "bot toggled successfully",
		"botStatus": active,
	})
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var upd config.Update
	if err := decodeJSON(r, &upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "malformed request body",
		})
		return
	}

	if errs := upd.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "invalid config fields",
			"errors":  errs,
		})
		return
	}

	wlt, err := wallet.FromSecret(upd.PrivateKey)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "invalid private key: " + err.Error(),
		})
		return
	}
	s.logger.Printf("wallet address: %s", wlt.PublicKey())

	s.mu.Lock()
	cfg := upd.Apply(s.cfg)
	s.mu.Unlock()

	var proxyURLs []string
	if s.proxies != nil {
		proxyURLs, err = s.proxies.FetchProxies(r.Context())
		if err != nil {
			s.logger.Printf("proxy fetch failed: %v", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"message": "fetching proxies failed",
			})
			return
		}
	}
	if len(proxyURLs) == 0 {
		s.logger.Println("warning: proxy pool is empty, requests go direct")
	} else {
		s.logger.Printf("proxy pool loaded: %d entries", len(proxyURLs))
	}

	pool := proxy.NewPool(proxyURLs)
	client := s.newQuoteClient(pool)
	submitter := s.newSubmitter(cfg.RPCEndpoint)

	s.mu.Lock()
	s.cfg = cfg
	s.wallet = wlt
	s.mu.Unlock()

	s.engine.Reconfigure(cfg, client, submitter, wlt)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "bot settings updated successfully",
		"status":  http.StatusOK,
	})
}

// statsResponse is the stats snapshot extended with control-surface status
// fields.
type statsResponse struct {
	state.StatsSnapshot
	BotStatus       bool `json:"botStatus"`
	IsConfigUpdated bool `json:"isConfigUpdated"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	configured := s.wallet != nil
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, statsResponse{
		StatsSnapshot:   s.stats.Snapshot(s.tradeLog),
		BotStatus:       s.engine.Active(),
		IsConfigUpdated: configured,
	})
}

func (s *Server) handleGetTradeLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tradeLog.Entries())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
