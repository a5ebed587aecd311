package ledger

import (
	"sort"

	"fintrack/internal/core"
)

// BudgetMap maps a category label to its budget ceiling. At most one
// ceiling per category; setting an existing category overwrites it.
type BudgetMap struct {
	ceilings map[string]core.Money
}

func NewBudgetMap() *BudgetMap {
	return &BudgetMap{ceilings: make(map[string]core.Money)}
}

// Set inserts or overwrites the ceiling for a category.
func (b *BudgetMap) Set(category string, amount core.Money) {
	b.ceilings[category] = amount
}

// Get returns the ceiling for a category. An absent category reads as a
// zero ceiling, never an error, so "no budget set" and "zero budget" are
// the same to callers.
func (b *BudgetMap) Get(category string) core.Money {
	return b.ceilings[category]
}

func (b *BudgetMap) IsEmpty() bool {
	return len(b.ceilings) == 0
}

func (b *BudgetMap) Len() int {
	return len(b.ceilings)
}

// Categories returns the budgeted category labels sorted ascending, which
// keeps report and serialization order deterministic.
func (b *BudgetMap) Categories() []string {
	out := make([]string, 0, len(b.ceilings))
	for cat := range b.ceilings {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
