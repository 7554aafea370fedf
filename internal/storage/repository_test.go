package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gastos/internal/core"
)

func newTestRepo(t *testing.T) (*Gateway, *TransactionRepository) {
	t.Helper()

	gw, err := Open(filepath.Join(t.TempDir(), "gastos.db"))
	if err != nil {
		t.Fatalf("open gateway: %v", err)
	}
	t.Cleanup(func() { gw.Close() })

	if err := gw.EnsureSchema(); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return gw, NewTransactionRepository(gw)
}

func mustAppend(t *testing.T, repo *TransactionRepository, typ core.TransactionType, amount string, title string, date time.Time) int64 {
	t.Helper()
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		t.Fatalf("parse amount %q: %v", amount, err)
	}
	id, err := repo.Append(context.Background(), core.Transaction{
		Type:   typ,
		Title:  title,
		Amount: core.Money{Cents: cents},
		Date:   date,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	return id
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	gw, repo := newTestRepo(t)

	// Repeated schema setup must be a no-op, not an error
	for i := 0; i < 3; i++ {
		if err := gw.EnsureSchema(); err != nil {
			t.Fatalf("EnsureSchema call %d: %v", i+2, err)
		}
	}

	var count int
	err := gw.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'transactions'`,
	).Scan(&count)
	if err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one transactions table, got %d", count)
	}

	// And the table is usable
	mustAppend(t, repo, core.Income, "1.00", "", time.Now())
}

func TestAppendThenListVisibility(t *testing.T) {
	_, repo := newTestRepo(t)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	id := mustAppend(t, repo, core.Income, "100.00", "Salary", date)
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	txs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	got := txs[0]
	if got.ID != id {
		t.Errorf("id: expected %d, got %d", id, got.ID)
	}
	if got.Type != core.Income {
		t.Errorf("type: expected %q, got %q", core.Income, got.Type)
	}
	if got.Amount.Cents != 10000 {
		t.Errorf("amount: expected 10000 cents, got %d", got.Amount.Cents)
	}
	if got.Title != "Salary" {
		t.Errorf("title: expected Salary, got %q", got.Title)
	}
	if !got.Date.Equal(date) {
		t.Errorf("date: expected %v, got %v", date, got.Date)
	}

	id2 := mustAppend(t, repo, core.Expense, "5.00", "Coffee", date)
	if id2 == id {
		t.Fatalf("expected a fresh id, got %d twice", id)
	}
}

func TestListOrderedNewestFirst(t *testing.T) {
	_, repo := newTestRepo(t)

	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}
	// Appended out of chronological order on purpose
	mustAppend(t, repo, core.Income, "1.00", "first", day(1))
	mustAppend(t, repo, core.Income, "2.00", "third", day(5))
	mustAppend(t, repo, core.Income, "3.00", "second", day(3))

	txs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	wantDays := []int{5, 3, 1}
	for i, want := range wantDays {
		if got := txs[i].Date.Day(); got != want {
			t.Errorf("position %d: expected day %d, got %d", i, want, got)
		}
	}
}

func TestListBreaksDateTiesByIDDescending(t *testing.T) {
	_, repo := newTestRepo(t)

	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := mustAppend(t, repo, core.Income, "1.00", "a", date)
	second := mustAppend(t, repo, core.Income, "2.00", "b", date)

	txs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 || txs[0].ID != second || txs[1].ID != first {
		t.Fatalf("expected ids [%d %d], got %+v", second, first, txs)
	}
}

func TestMonthlyTotalsExact(t *testing.T) {
	_, repo := newTestRepo(t)

	now := time.Now()
	for _, amount := range []string{"10.50", "20.25", "5.00"} {
		mustAppend(t, repo, core.Income, amount, "", now)
	}
	for _, amount := range []string{"7.00", "3.00"} {
		mustAppend(t, repo, core.Expense, amount, "", now)
	}

	totals, err := repo.MonthlyTotals(context.Background())
	if err != nil {
		t.Fatalf("monthly totals: %v", err)
	}
	if totals.Income.Cents != 3575 {
		t.Errorf("income: expected 3575 cents, got %d", totals.Income.Cents)
	}
	if totals.Expense.Cents != 1000 {
		t.Errorf("expense: expected 1000 cents, got %d", totals.Expense.Cents)
	}
}

func TestTotalsForMonthHalfOpenInterval(t *testing.T) {
	_, repo := newTestRepo(t)

	monthStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	// Inside the month, including the very first instant
	mustAppend(t, repo, core.Income, "10.00", "boundary", monthStart)
	mustAppend(t, repo, core.Income, "5.00", "mid-month", monthStart.AddDate(0, 0, 14))
	mustAppend(t, repo, core.Expense, "2.00", "", monthStart.AddDate(0, 0, 20))

	// Outside: previous month, and the first instant of the next month
	mustAppend(t, repo, core.Income, "100.00", "february", monthStart.AddDate(0, 0, -1))
	mustAppend(t, repo, core.Income, "100.00", "april", nextMonthStart)
	mustAppend(t, repo, core.Expense, "100.00", "april too", nextMonthStart.AddDate(0, 0, 3))

	totals, err := repo.TotalsForMonth(context.Background(), 2024, time.March)
	if err != nil {
		t.Fatalf("totals for month: %v", err)
	}
	if totals.Income.Cents != 1500 {
		t.Errorf("income: expected 1500 cents, got %d", totals.Income.Cents)
	}
	if totals.Expense.Cents != 200 {
		t.Errorf("expense: expected 200 cents, got %d", totals.Expense.Cents)
	}
}

func TestMonthlyTotalsEmptyStore(t *testing.T) {
	_, repo := newTestRepo(t)

	totals, err := repo.MonthlyTotals(context.Background())
	if err != nil {
		t.Fatalf("monthly totals on empty store: %v", err)
	}
	if totals.Income.Cents != 0 || totals.Expense.Cents != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestAppendRejectsInvalidInput(t *testing.T) {
	_, repo := newTestRepo(t)

	cases := []struct {
		name string
		tx   core.Transaction
		want error
	}{
		{
			name: "bogus type",
			tx:   core.Transaction{Type: "Bogus", Amount: core.Money{Cents: 1000}, Date: time.Now()},
			want: core.ErrInvalidType,
		},
		{
			name: "negative amount",
			tx:   core.Transaction{Type: core.Income, Amount: core.Money{Cents: -500}, Date: time.Now()},
			want: core.ErrInvalidAmount,
		},
		{
			name: "zero date",
			tx:   core.Transaction{Type: core.Income, Amount: core.Money{Cents: 1000}},
			want: core.ErrInvalidDate,
		},
	}
	for _, tc := range cases {
		if _, err := repo.Append(context.Background(), tc.tx); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// Rejected appends must leave no rows behind
	txs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected no rows after rejected appends, got %d", len(txs))
	}
}
