package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/ledger"
)

// FileRepository persists the registry as one flat text file. Every save
// rewrites the whole file through a temp file plus rename, so a crash mid
// write never leaves a corrupted store behind.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) (*FileRepository, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &FileRepository{path: path}, nil
}

// Load reads the registry from disk. A missing file is not an error: it
// yields an empty registry, matching first-run behavior. Schema skips are
// logged per line and never abort the load.
func (r *FileRepository) Load(ctx context.Context) (*ledger.Registry, error) {
	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "No persisted ledger found, starting empty", "path", r.path)
		return ledger.NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	reg, skips, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode ledger file: %w", err)
	}
	for _, s := range skips {
		slog.WarnContext(ctx, "Skipped malformed ledger record",
			"path", r.path,
			"line", s.Line,
			"reason", s.Reason)
	}
	slog.InfoContext(ctx, "Ledger loaded",
		"path", r.path,
		"profiles", reg.Len(),
		"skipped_records", len(skips))
	return reg, nil
}

// Save rewrites the whole registry atomically.
func (r *FileRepository) Save(ctx context.Context, reg *ledger.Registry) error {
	var buf bytes.Buffer
	if err := Encode(&buf, reg); err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved", "path", r.path, "profiles", reg.Len())
	return nil
}

func (r *FileRepository) Close() error {
	return nil
}
