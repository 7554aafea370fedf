package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gastos/internal/core"
)

// TransactionRepository translates the domain operations into
// parameterized SQL against the gateway. It is stateless; every call is
// answered from the store's current contents.
type TransactionRepository struct {
	gw *Gateway
}

func NewTransactionRepository(gw *Gateway) *TransactionRepository {
	return &TransactionRepository{gw: gw}
}

// Dates are stored as UTC RFC3339 text so that lexicographic comparison
// in SQL agrees with chronological order, both for ORDER BY and for the
// month range predicates.
const dateLayout = time.RFC3339

// Append validates the transaction and inserts a single row, returning
// the engine-assigned id. Validation failures are reported before any
// store interaction.
func (r *TransactionRepository) Append(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.gw.Exec(ctx,
		`INSERT INTO transactions (type, amount_cents, title, date) VALUES (?, ?, ?, ?)`,
		string(t.Type), t.Amount.Cents, t.Title, t.Date.UTC().Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.UTC().Format(dateLayout))

	return id, nil
}

// List returns every transaction, newest first. Ties on date break by
// id descending so the order is deterministic. The result is fully
// materialized; an empty store yields an empty slice, not an error.
func (r *TransactionRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.gw.Query(ctx,
		`SELECT id, type, amount_cents, title, date FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		var (
			t       core.Transaction
			typ     string
			dateStr string
		)
		if err := rows.Scan(&t.ID, &typ, &t.Amount.Cents, &t.Title, &dateStr); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		t.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// MonthlyTotals sums income and expense for the current calendar month,
// evaluated against local wall-clock time once per call. The interval
// is half-open: [first instant of this month, first instant of next).
func (r *TransactionRepository) MonthlyTotals(ctx context.Context) (core.MonthlyTotals, error) {
	now := time.Now()
	return r.TotalsForMonth(ctx, now.Year(), now.Month())
}

// TotalsForMonth computes the same aggregation for an explicit month.
// Zero sums mean "no matching rows"; a failed query is returned as an
// error, never masked as zero.
func (r *TransactionRepository) TotalsForMonth(ctx context.Context, year int, month time.Month) (core.MonthlyTotals, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	totals := core.MonthlyTotals{}

	income, err := r.sumRange(ctx, core.Income, start, end)
	if err != nil {
		return totals, fmt.Errorf("sum income: %w", err)
	}
	expense, err := r.sumRange(ctx, core.Expense, start, end)
	if err != nil {
		return totals, fmt.Errorf("sum expense: %w", err)
	}

	totals.Income = core.Money{Cents: income}
	totals.Expense = core.Money{Cents: expense}
	return totals, nil
}

func (r *TransactionRepository) sumRange(ctx context.Context, typ core.TransactionType, start, end time.Time) (int64, error) {
	var cents int64
	err := r.gw.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE type = ? AND date >= ? AND date < ?`,
		string(typ), start.UTC().Format(dateLayout), end.UTC().Format(dateLayout),
	).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return cents, nil
}
