// Package http exposes the ledger over a JSON API. Authentication is
// resolved at this boundary: handlers extract the owner id once and
// pass it explicitly into every service call, so the core never sees
// ambient auth state.
package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	applog "tally/internal/log"
	"tally/internal/services"
)

type Server struct {
	http.Server

	ledger  *services.Ledger
	reports *services.Reports
	auth    *Authenticator

	rateLimiter *rateLimiter
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, ledger *services.Ledger, reports *services.Reports, auth *Authenticator, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		ledger:      ledger,
		reports:     reports,
		auth:        auth,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/transactions", s.protected(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.protected(s.handleTransactionByID))
	mux.HandleFunc("/api/budgets", s.protected(s.handleBudgets))
	mux.HandleFunc("/api/budgets/", s.protected(s.handleBudgetByID))
	mux.HandleFunc("/api/goals", s.protected(s.handleGoals))
	mux.HandleFunc("/api/goals/", s.protected(s.handleGoalByID))
	mux.HandleFunc("/api/profile", s.protected(s.handleProfile))
	mux.HandleFunc("/api/summary", s.protected(s.handleSummary))
	mux.HandleFunc("/api/reports/categories", s.protected(s.handleExpensesByCategory))
	mux.HandleFunc("/api/reports/cashflow", s.protected(s.handleIncomeVsExpenses))

	s.Handler = applog.Middleware(logger)(mux)
	return s
}

// protected wraps a handler with rate limiting and owner resolution.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(requestIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		ownerID, err := s.auth.OwnerFromRequest(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="tally"`)
			writeError(w, http.StatusUnauthorized, "invalid or missing credentials")
			return
		}

		next(w, r.WithContext(withOwner(r.Context(), ownerID)))
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}
	return s.Server.Shutdown(ctx)
}

func requestIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
