// Package http exposes the transaction store to the UI layer as a small
// JSON API: append, list, and monthly summary. It is the only consumer
// of the storage core.
package http

import (
	"context"
	"net/http"
	"time"

	"gastos/internal/core"
)

// TransactionStore is the slice of the repository the handlers need.
type TransactionStore interface {
	Append(ctx context.Context, t core.Transaction) (int64, error)
	List(ctx context.Context) ([]core.Transaction, error)
	MonthlyTotals(ctx context.Context) (core.MonthlyTotals, error)
	TotalsForMonth(ctx context.Context, year int, month time.Month) (core.MonthlyTotals, error)
}

type Server struct {
	*http.Server
	store TransactionStore
}

func NewServer(addr string, store TransactionStore) *Server {
	s := &Server{store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/summary/month", s.handleMonthSummary)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.Server = &http.Server{
		Addr:           addr,
		Handler:        traceMiddleware(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
