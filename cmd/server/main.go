// Package main runs the sniper daemon: the trading engine plus the HTTP
// control surface and a separate metrics listener.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solana-sniper/internal/config"
	"solana-sniper/internal/engine"
	"solana-sniper/internal/observability"
	"solana-sniper/internal/proxy"
	"solana-sniper/internal/server"
	"solana-sniper/internal/state"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("PORT", ":3001"), "Control API listen address")
	metricsAddr := flag.String("metrics-addr", envOr("METRICS_ADDR", ":9090"), "Prometheus metrics HTTP address")
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Default Solana RPC HTTP endpoint")
	email := flag.String("email", os.Getenv("EMAIL"), "Control API login email")
	password := flag.String("pass", os.Getenv("PASS"), "Control API login password")
	jwtSecret := flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "HMAC secret for login tokens")
	webshareTokens := flag.String("webshare-tokens", os.Getenv("WEBSHARE_TOKENS"), "Comma-separated webshare.io API tokens")
	pollInterval := flag.Duration("poll-interval", config.DefaultPollInterval, "Delay between discovery iterations")
	firstRunSettle := flag.Duration("first-run-settle", config.DefaultFirstRunSettle, "Pause after the first non-empty poll")

	flag.Parse()

	// Accept a bare port number from the PORT env var
	if !strings.Contains(*addr, ":") {
		*addr = ":" + *addr
	}

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	// Validate required flags
	if *jwtSecret == "" {
		logger.Fatal("--jwt-secret (or JWT_SECRET) is required")
	}
	if *email == "" || *password == "" {
		logger.Println("warning: EMAIL/PASS not set, login is disabled")
	}

	// Shared process-lifetime state
	stats := state.NewTradeStats()
	tradeLog := state.NewTradeLog()

	eng := engine.New(engine.Options{
		Config: config.Config{
			PollInterval:   *pollInterval,
			FirstRunSettle: *firstRunSettle,
			RPCEndpoint:    *rpcEndpoint,
		},
		Stats:    stats,
		TradeLog: tradeLog,
		Logger:   log.New(os.Stdout, "[engine] ", log.LstdFlags),
	})

	var proxies server.ProxySource
	if tokens := splitTokens(*webshareTokens); len(tokens) > 0 {
		proxies = proxy.NewWebshareClient(tokens)
	} else {
		logger.Println("warning: WEBSHARE_TOKENS not set, proxy pool stays empty")
	}

	srv := server.New(server.Options{
		Engine:    eng,
		Stats:     stats,
		TradeLog:  tradeLog,
		Email:     *email,
		Password:  *password,
		JWTSecret: []byte(*jwtSecret),
		Proxies:   proxies,
		Logger:    logger,
	})

	api := &http.Server{
		Addr:    *addr,
		Handler: srv.Routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

		eng.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := api.Shutdown(ctx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-done:
		}
	}()

	// Metrics listener
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		logger.Printf("Starting metrics server on %s", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Metrics server error: %v", err)
		}
	}()

	logger.Printf("Starting control API on %s", *addr)
	if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}
	close(done)

	logger.Println("Shutdown complete")
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// envOr returns the value of the environment variable key, or fallback when
// unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitTokens splits a comma-separated token list, dropping empty entries.
func splitTokens(raw string) []string {
	var tokens []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
