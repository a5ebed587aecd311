package report

import (
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func tx(kind core.Kind, date, category string, cents int64) core.Transaction {
	return core.Transaction{
		Date:     date,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Kind:     kind,
	}
}

func TestExpensesByCategory(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "2024-01-01", "Food", 1000),
		tx(core.Expense, "2024-01-02", "Food", 500),
		tx(core.Income, "2024-01-03", "Salary", 10000),
	}
	got := ExpensesByCategory(txs)
	if len(got) != 1 {
		t.Fatalf("got %d categories, want 1: %v", len(got), got)
	}
	if got["Food"].Cents != 1500 {
		t.Fatalf("Food = %d cents, want 1500", got["Food"].Cents)
	}
	if _, ok := got["Salary"]; ok {
		t.Fatalf("income category leaked into expense sums")
	}
}

func TestSummarize(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, "2024-01-01", "Salary", 10000),
		tx(core.Expense, "2024-01-02", "Food", 4000),
		tx(core.Expense, "2024-01-03", "Rent", 3000),
	}
	s := Summarize(txs)
	if s.TotalIncome.Cents != 10000 || s.TotalExpense.Cents != 7000 || s.Net.Cents != 3000 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestBudgetReportStatuses(t *testing.T) {
	cases := []struct {
		name       string
		spentCents int64
		want       BudgetStatus
	}{
		{"under budget", 1000, StatusOK},
		{"at ninety percent", 1800, StatusWarning},
		{"over budget", 2100, StatusExceeded},
		{"exactly at budget", 2000, StatusWarning}, // 100% is not exceeded, still >= 90%
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			budgets := ledger.NewBudgetMap()
			budgets.Set("Food", core.Money{Cents: 2000})
			txs := []core.Transaction{tx(core.Expense, "2024-01-01", "Food", tc.spentCents)}

			lines := BudgetReport(budgets, txs)
			if len(lines) != 1 {
				t.Fatalf("got %d lines, want 1", len(lines))
			}
			if lines[0].Status != tc.want {
				t.Fatalf("status = %s, want %s", lines[0].Status, tc.want)
			}
		})
	}
}

func TestBudgetReportIteratesBudgetCategoriesOnly(t *testing.T) {
	budgets := ledger.NewBudgetMap()
	budgets.Set("Rent", core.Money{Cents: 90000})
	budgets.Set("Food", core.Money{Cents: 2000})

	// Spending in a category with no budget must not produce a line.
	txs := []core.Transaction{
		tx(core.Expense, "2024-01-01", "Gadgets", 5000),
	}
	lines := BudgetReport(budgets, txs)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	// Sorted by category, zero spend for both.
	if lines[0].Category != "Food" || lines[1].Category != "Rent" {
		t.Fatalf("unexpected order: %+v", lines)
	}
	for _, l := range lines {
		if !l.Spent.IsZero() || l.Status != StatusOK {
			t.Fatalf("expected zero spend OK line, got %+v", l)
		}
	}
}

func TestBudgetReportZeroBudget(t *testing.T) {
	budgets := ledger.NewBudgetMap()
	budgets.Set("Misc", core.Money{Cents: 0})

	// Zero ceiling with zero spend is OK, any spend exceeds it.
	if lines := BudgetReport(budgets, nil); lines[0].Status != StatusOK {
		t.Fatalf("zero budget zero spend = %s, want ok", lines[0].Status)
	}
	txs := []core.Transaction{tx(core.Expense, "2024-01-01", "Misc", 1)}
	if lines := BudgetReport(budgets, txs); lines[0].Status != StatusExceeded {
		t.Fatalf("zero budget with spend = %s, want exceeded", lines[0].Status)
	}
}

func TestBuildTimeSeries(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, "2024-01-15", "Salary", 10000),
		tx(core.Expense, "2024-01-20", "Food", 4000),
		tx(core.Income, "2024-02-01", "Salary", 5000),
		// Malformed date: contributes to no bucket but must not abort.
		tx(core.Expense, "2024/03/01", "Food", 99900),
	}
	ts := BuildTimeSeries(txs)

	wantMonthly := []PeriodTotals{
		{Period: "2024-01", Income: core.Money{Cents: 10000}, Expense: core.Money{Cents: 4000}, Net: core.Money{Cents: 6000}},
		{Period: "2024-02", Income: core.Money{Cents: 5000}, Expense: core.Money{}, Net: core.Money{Cents: 5000}},
	}
	if len(ts.Monthly) != len(wantMonthly) {
		t.Fatalf("monthly buckets = %d, want %d: %+v", len(ts.Monthly), len(wantMonthly), ts.Monthly)
	}
	for i, want := range wantMonthly {
		if ts.Monthly[i] != want {
			t.Fatalf("monthly[%d] = %+v, want %+v", i, ts.Monthly[i], want)
		}
	}

	wantYearly := PeriodTotals{Period: "2024", Income: core.Money{Cents: 15000}, Expense: core.Money{Cents: 4000}, Net: core.Money{Cents: 11000}}
	if len(ts.Yearly) != 1 || ts.Yearly[0] != wantYearly {
		t.Fatalf("yearly = %+v, want [%+v]", ts.Yearly, wantYearly)
	}
}

func TestBuildTimeSeriesSortsAcrossYears(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, "2024-02-01", "A", 100),
		tx(core.Income, "2023-12-01", "A", 100),
		tx(core.Income, "2024-01-01", "A", 100),
	}
	ts := BuildTimeSeries(txs)
	want := []string{"2023-12", "2024-01", "2024-02"}
	for i, w := range want {
		if ts.Monthly[i].Period != w {
			t.Fatalf("monthly order = %+v, want %v", ts.Monthly, want)
		}
	}
}
