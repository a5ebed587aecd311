// Package report computes summaries, budget comparisons, and time-series
// rollups over a snapshot of one profile's transactions and budgets. All
// functions are pure: they never mutate their inputs and hold no state.
package report

import (
	"sort"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// BudgetStatus classifies spending against a category's ceiling.
type BudgetStatus string

const (
	StatusOK       BudgetStatus = "ok"
	StatusWarning  BudgetStatus = "warning"
	StatusExceeded BudgetStatus = "exceeded"
)

// Summary is the income/expense/net roll-up over all transactions.
type Summary struct {
	TotalIncome  core.Money
	TotalExpense core.Money
	Net          core.Money
}

// BudgetLine compares one budgeted category's ceiling against its spend.
type BudgetLine struct {
	Category string
	Budget   core.Money
	Spent    core.Money
	Status   BudgetStatus
}

// PeriodTotals is one time-series bucket, keyed by "YYYY-MM" or "YYYY".
type PeriodTotals struct {
	Period  string
	Income  core.Money
	Expense core.Money
	Net     core.Money
}

// TimeSeries holds the monthly and yearly buckets in ascending period order.
type TimeSeries struct {
	Monthly []PeriodTotals
	Yearly  []PeriodTotals
}

// ExpensesByCategory sums expense amounts grouped by category. Income is
// ignored, and categories without any expense are simply absent.
func ExpensesByCategory(transactions []core.Transaction) map[string]core.Money {
	expenses := make(map[string]core.Money)
	for _, t := range transactions {
		if t.Kind == core.Expense {
			expenses[t.Category] = expenses[t.Category].Add(t.Amount)
		}
	}
	return expenses
}

// Summarize computes the totals in a single pass.
func Summarize(transactions []core.Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		switch t.Kind {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// BudgetReport compares spend against every budgeted category, sorted by
// category name. Categories that only appear in transactions are not
// reported; a category with no spend reads as zero. Exceeded wins over
// Warning; Warning fires at 90% of a positive ceiling.
func BudgetReport(budgets *ledger.BudgetMap, transactions []core.Transaction) []BudgetLine {
	spent := ExpensesByCategory(transactions)
	lines := make([]BudgetLine, 0, budgets.Len())
	for _, cat := range budgets.Categories() {
		budget := budgets.Get(cat)
		line := BudgetLine{
			Category: cat,
			Budget:   budget,
			Spent:    spent[cat],
			Status:   StatusOK,
		}
		switch {
		case line.Spent.Cents > budget.Cents:
			line.Status = StatusExceeded
		case budget.Cents > 0 && line.Spent.Cents*10 >= budget.Cents*9:
			line.Status = StatusWarning
		}
		lines = append(lines, line)
	}
	return lines
}

// BuildTimeSeries buckets income and expense by month and year. Entries
// whose dates do not parse are excluded from every bucket; one bad date
// never aborts the rest of the report.
func BuildTimeSeries(transactions []core.Transaction) TimeSeries {
	monthly := make(map[string]*PeriodTotals)
	yearly := make(map[string]*PeriodTotals)

	for _, t := range transactions {
		parts, err := core.ParseDate(t.Date)
		if err != nil {
			continue
		}
		accumulate(monthly, parts.MonthKey(), t)
		accumulate(yearly, parts.YearKey(), t)
	}

	return TimeSeries{
		Monthly: sortedPeriods(monthly),
		Yearly:  sortedPeriods(yearly),
	}
}

func accumulate(buckets map[string]*PeriodTotals, key string, t core.Transaction) {
	b, ok := buckets[key]
	if !ok {
		b = &PeriodTotals{Period: key}
		buckets[key] = b
	}
	switch t.Kind {
	case core.Income:
		b.Income = b.Income.Add(t.Amount)
	case core.Expense:
		b.Expense = b.Expense.Add(t.Amount)
	}
}

// sortedPeriods emits buckets ascending by key. Zero-padded keys make the
// lexicographic order chronological.
func sortedPeriods(buckets map[string]*PeriodTotals) []PeriodTotals {
	out := make([]PeriodTotals, 0, len(buckets))
	for _, b := range buckets {
		b.Net = b.Income.Sub(b.Expense)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
