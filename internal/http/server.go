// Package http is the external collaborator over the ledger core: a JSON
// API that authenticates profiles, trims and parses user input at the
// boundary, and renders the computed reports.
package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fintrack/internal/auth"
	"fintrack/internal/service"
)

type Server struct {
	http.Server
	svc    *service.Ledger
	tokens *auth.Manager
}

func NewServer(addr string, svc *service.Ledger, tokens *auth.Manager) *Server {
	s := &Server{
		svc:    svc,
		tokens: tokens,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	mux.Handle("POST /api/transactions", s.requireAuth(s.handleAddTransaction))
	mux.Handle("GET /api/transactions/{id}", s.requireAuth(s.handleGetTransaction))
	mux.Handle("PUT /api/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))

	mux.Handle("PUT /api/budgets", s.requireAuth(s.handleSetBudget))

	mux.Handle("GET /api/reports/summary", s.requireAuth(s.handleSummary))
	mux.Handle("GET /api/reports/budget", s.requireAuth(s.handleBudgetReport))
	mux.Handle("GET /api/reports/timeseries", s.requireAuth(s.handleTimeSeries))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	s.Server = http.Server{
		Addr:           addr,
		Handler:        traceMiddleware(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	return s
}
