// Package worker runs the background export pipeline: it listens for ledger
// mutation events and mirrors the persisted registry to an external sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/events"
	"fintrack/internal/ledger"
)

type Snapshotter interface {
	Load(ctx context.Context) (*ledger.Registry, error)
}

type Exporter interface {
	Export(ctx context.Context, reg *ledger.Registry) error
}

type Consumer interface {
	Consume(ctx context.Context, handler func(*events.LedgerEvent) error) error
}

// ExportWorker re-exports the full registry whenever a mutation event
// arrives, coalescing bursts into one export per tick. A slower periodic
// export catches anything missed while the queue was unavailable.
type ExportWorker struct {
	repo     Snapshotter
	exporter Exporter
	consumer Consumer
	interval time.Duration

	dirty atomic.Bool
}

func NewExportWorker(repo Snapshotter, exporter Exporter, consumer Consumer, interval time.Duration) *ExportWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ExportWorker{
		repo:     repo,
		exporter: exporter,
		consumer: consumer,
		interval: interval,
	}
}

// Run blocks until the context is cancelled or the consumer fails.
func (w *ExportWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := w.consumer.Consume(ctx, func(event *events.LedgerEvent) error {
			slog.InfoContext(ctx, "ledger event received",
				"username", event.Username,
				"action", event.Action,
				"transaction_id", event.TransactionID)
			w.dirty.Store(true)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("consume ledger events: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		w.exportLoop(ctx)
		return nil
	})

	return g.Wait()
}

func (w *ExportWorker) exportLoop(ctx context.Context) {
	// A short tick drains pending mutation events; the full interval forces
	// a re-export even when no events arrived.
	drain := time.NewTicker(5 * time.Second)
	defer drain.Stop()
	full := time.NewTicker(w.interval)
	defer full.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-drain.C:
			if !w.dirty.Swap(false) {
				continue
			}
			if err := w.ExportOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "export after mutation failed", "error", err)
				w.dirty.Store(true)
			}
		case <-full.C:
			if err := w.ExportOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "periodic export failed", "error", err)
			}
		}
	}
}

// ExportOnce loads the persisted registry and pushes it to the exporter.
func (w *ExportWorker) ExportOnce(ctx context.Context) error {
	reg, err := w.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if err := w.exporter.Export(ctx, reg); err != nil {
		return fmt.Errorf("export registry: %w", err)
	}
	slog.InfoContext(ctx, "registry exported", "profiles", reg.Len())
	return nil
}
