package core

import (
	"errors"
	"strings"
)

const (
	Income  Kind = 'I'
	Expense Kind = 'E'
)

type (
	// Kind is the direction of a transaction. The amount itself carries no
	// sign; Kind decides whether it counts as income or expense.
	Kind byte

	// Transaction is one dated income or expense record. Date is kept as the
	// raw text the caller supplied; it is only parsed when a report needs
	// calendar components.
	Transaction struct {
		ID          int64
		Date        string
		Category    string
		Description string
		Amount      Money
		Kind        Kind
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// ParseKind maps a kind code to a Kind. The persisted one-letter codes
// ("I"/"E") and the spelled-out API forms ("income"/"expense") are both
// accepted, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "I", "INCOME":
		return Income, nil
	case "E", "EXPENSE":
		return Expense, nil
	default:
		return 0, ErrInvalidKind
	}
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// String returns the persisted one-letter code.
func (k Kind) String() string {
	return string(rune(k))
}

// Name returns the spelled-out form used by the API.
func (k Kind) Name() string {
	switch k {
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return "unknown"
	}
}
