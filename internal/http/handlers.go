package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"gastos/internal/core"
	"gastos/internal/storage"
)

type transactionRequest struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Title  string `json:"title,omitempty"`
	Date   string `json:"date,omitempty"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Title       string `json:"title,omitempty"`
	Date        string `json:"date"`
}

type summaryResponse struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleListTransactions(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	var req transactionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "type must be income or expense")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	// Date defaults to now; the caller, not the store, fixes the moment
	// of creation.
	date := time.Now()
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, expected RFC3339 or YYYY-MM-DD")
			return
		}
	}

	tx := core.Transaction{
		Type:   typ,
		Title:  sanitizeInput(req.Title),
		Amount: core.Money{Cents: cents},
		Date:   date,
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.Append(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save transaction",
			"error", err,
			"type", tx.Type,
			"amount_cents", tx.Amount.Cents)
		writeError(w, http.StatusInternalServerError, "could not save transaction")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load transactions")
		return
	}

	out := make([]transactionResponse, len(txs))
	for i, t := range txs {
		out[i] = transactionResponse{
			ID:          t.ID,
			Type:        string(t.Type),
			Amount:      t.Amount.String(),
			AmountCents: t.Amount.Cents,
			Title:       t.Title,
			Date:        t.Date.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusUnprocessableEntity, "month must be between 1 and 12")
		return
	}

	totals, err := s.store.TotalsForMonth(r.Context(), year, time.Month(month))
	if err != nil {
		if errors.Is(err, storage.ErrQuery) {
			slog.ErrorContext(r.Context(), "Failed to compute monthly totals",
				"error", err, "year", year, "month", month)
		}
		writeError(w, http.StatusInternalServerError, "could not compute totals")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Year:         year,
		Month:        month,
		Income:       totals.Income.String(),
		Expense:      totals.Expense.String(),
		IncomeCents:  totals.Income.Cents,
		ExpenseCents: totals.Expense.Cents,
	})
}
