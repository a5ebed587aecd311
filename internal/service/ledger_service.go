// Package service orchestrates the ledger core behind the API boundary:
// registration and login, mutations that rewrite the persisted snapshot,
// and read-only report computation. The active profile is always resolved
// per call from the caller's session; there is no global current user.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/ledger"
	"fintrack/internal/report"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fintrack_ledger_mutations_total",
	Help: "Number of successful ledger mutations by action.",
}, []string{"action"})

// Publisher is the optional mutation event sink.
type Publisher interface {
	Publish(ctx context.Context, event *events.LedgerEvent) error
}

// Ledger owns the in-memory registry and the repository holding its durable
// copy. The HTTP layer serves requests concurrently, so all access goes
// through one mutex; the persisted file still sees strictly sequential
// wholesale rewrites.
type Ledger struct {
	mu        sync.Mutex
	registry  *ledger.Registry
	repo      backend.Repository
	publisher Publisher
}

// NewLedger loads the registry from the repository. publisher may be nil.
func NewLedger(ctx context.Context, repo backend.Repository, publisher Publisher) (*Ledger, error) {
	registry, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return &Ledger{
		registry:  registry,
		repo:      repo,
		publisher: publisher,
	}, nil
}

// Register creates a profile after checking username uniqueness, persists
// the registry, and returns the new profile.
func (l *Ledger) Register(ctx context.Context, username, password string) (*ledger.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.registry.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	}

	p := ledger.NewProfile(username, password)
	l.registry.Append(p)
	l.persistAndPublish(ctx, username, events.ActionRegister, 0)

	slog.InfoContext(ctx, "Profile registered", "username", username)
	return p, nil
}

// Login checks the plaintext credential and returns the matching profile.
func (l *Ledger) Login(ctx context.Context, username, password string) (*ledger.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil || !p.CheckPassword(password) {
		// One error for both cases so a caller cannot probe for usernames.
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// AddTransaction appends a transaction to the named profile's store and
// returns the assigned ID.
func (l *Ledger) AddTransaction(ctx context.Context, username, date, category, description string, amount core.Money, kind core.Kind) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return 0, err
	}
	id := p.Transactions.Add(date, category, description, amount, kind)
	l.persistAndPublish(ctx, username, events.ActionAddTx, id)

	slog.InfoContext(ctx, "Transaction added",
		"username", username,
		"id", id,
		"category", category,
		"amount", amount.String(),
		"kind", kind.String())
	return id, nil
}

// UpdateTransaction rewrites the supplied fields of one transaction.
func (l *Ledger) UpdateTransaction(ctx context.Context, username string, id int64, upd ledger.Update) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return err
	}
	if err := p.Transactions.UpdateByID(id, upd); err != nil {
		return err
	}
	l.persistAndPublish(ctx, username, events.ActionUpdateTx, id)

	slog.InfoContext(ctx, "Transaction updated", "username", username, "id", id)
	return nil
}

// DeleteTransaction removes one transaction by ID.
func (l *Ledger) DeleteTransaction(ctx context.Context, username string, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return err
	}
	if err := p.Transactions.Delete(id); err != nil {
		return err
	}
	l.persistAndPublish(ctx, username, events.ActionDeleteTx, id)

	slog.InfoContext(ctx, "Transaction deleted", "username", username, "id", id)
	return nil
}

// SetBudget inserts or overwrites one category ceiling.
func (l *Ledger) SetBudget(ctx context.Context, username, category string, amount core.Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return err
	}
	p.Budgets.Set(category, amount)
	l.persistAndPublish(ctx, username, events.ActionSetBudget, 0)

	slog.InfoContext(ctx, "Budget set",
		"username", username,
		"category", category,
		"ceiling", amount.String())
	return nil
}

// GetTransaction returns a copy of one transaction.
func (l *Ledger) GetTransaction(username string, id int64) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return core.Transaction{}, err
	}
	return p.Transactions.FindByID(id)
}

// ListTransactions returns the profile's transactions in storage order,
// optionally restricted to one category.
func (l *Ledger) ListTransactions(username, category string) ([]core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	return p.Transactions.List(category), nil
}

// Summary computes the income/expense/net totals for one profile.
func (l *Ledger) Summary(username string) (report.Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(p.Transactions.All()), nil
}

// BudgetReport compares spend against every budgeted category.
func (l *Ledger) BudgetReport(username string) ([]report.BudgetLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	return report.BudgetReport(p.Budgets, p.Transactions.All()), nil
}

// TimeSeries computes the monthly and yearly roll-ups.
func (l *Ledger) TimeSeries(username string) (report.TimeSeries, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.registry.FindByUsername(username)
	if err != nil {
		return report.TimeSeries{}, err
	}
	return report.BuildTimeSeries(p.Transactions.All()), nil
}

// SaveSnapshot forces a synchronous write of the full registry. Used at
// shutdown; unlike persistAndPublish it reports the save error to the caller.
func (l *Ledger) SaveSnapshot(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Save(ctx, l.registry)
}

// persistAndPublish rewrites the durable snapshot and announces the
// mutation. A save failure is reported to the operator but never rolls
// back the in-memory mutation; a publish failure is likewise non-fatal.
// Callers must hold the mutex.
func (l *Ledger) persistAndPublish(ctx context.Context, username, action string, txID int64) {
	mutationsTotal.WithLabelValues(action).Inc()

	if err := l.repo.Save(ctx, l.registry); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger",
			"error", err,
			"username", username,
			"action", action)
	}

	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, events.NewLedgerEvent(username, action, txID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err,
			"username", username,
			"action", action)
	}
}
