package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is one recorded financial movement. The direction of the
	// movement is carried by Type; Amount is always the absolute magnitude.
	Transaction struct {
		ID     int64
		Type   TransactionType
		Title  string
		Amount Money
		Date   time.Time
	}

	// MonthlyTotals holds the income and expense sums for one calendar month.
	// Both are zero when no rows fall inside the month.
	MonthlyTotals struct {
		Income  Money
		Expense Money
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrTitleTooLong  = errors.New("title too long (max 200 characters)")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// ParseTransactionType maps user-supplied text to a TransactionType.
// Matching is case-insensitive and also accepts the legacy Portuguese
// labels ("Receita"/"Despesa") written by earlier versions of the app.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "receita":
		return Income, nil
	case "expense", "despesa":
		return Expense, nil
	default:
		return "", ErrInvalidType
	}
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(t.Title) > 200 {
		return ErrTitleTooLong
	}
	return nil
}
