package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/watcher"
)

// Suffixes appended to inbox files once processed.
const (
	ImportedSuffix = ".imported"
	FailedSuffix   = ".failed"
)

// Inbox imports export files dropped into a directory.
type Inbox struct {
	dir         string
	importer    *Importer
	logger      *slog.Logger
	settleDelay time.Duration
}

// NewInbox creates an Inbox over dir.
func NewInbox(dir string, importer *Importer, log *slog.Logger) *Inbox {
	return &Inbox{
		dir:      dir,
		importer: importer,
		logger:   logger.OrDiscard(log),
	}
}

// Dir returns the watched directory.
func (in *Inbox) Dir() string { return in.dir }

// Run imports files already waiting in the inbox, then watches for new ones
// until ctx is cancelled.
func (in *Inbox) Run(ctx context.Context) error {
	if err := os.MkdirAll(in.dir, 0o755); err != nil {
		return fmt.Errorf("create inbox dir: %w", err)
	}

	w, err := watcher.New(in.logger, watcher.Options{
		SettleDelay: in.settleDelay,
		Extensions:  []string{".json"},
	})
	if err != nil {
		return err
	}
	defer w.Stop() //nolint:errcheck // best-effort cleanup

	if err := w.Watch(in.dir); err != nil {
		return err
	}
	go w.Start(ctx) //nolint:errcheck // returns when ctx is done

	in.logger.Info("import inbox watching", "dir", in.dir)
	in.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-w.Events():
			if event.Type != watcher.EventAdded {
				continue
			}
			in.process(ctx, event.Path)
		case err := <-w.Errors():
			in.logger.Warn("inbox watcher error", "error", err)
		}
	}
}

func (in *Inbox) scan(ctx context.Context) {
	matches, err := filepath.Glob(filepath.Join(in.dir, "*.json"))
	if err != nil {
		in.logger.Warn("inbox scan failed", "error", err)
		return
	}
	for _, path := range matches {
		in.process(ctx, path)
	}
}

func (in *Inbox) process(ctx context.Context, path string) {
	count, err := in.ProcessFile(ctx, path)
	if err != nil {
		in.logger.Warn("inbox file rejected", "path", path, "error", err)
		return
	}
	in.logger.Info("inbox file imported", "path", path, "count", count)
}

// ProcessFile imports one file and renames it with ImportedSuffix or FailedSuffix.
func (in *Inbox) ProcessFile(ctx context.Context, path string) (int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return 0, fmt.Errorf("not a json file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read inbox file: %w", err)
	}

	count, importErr := in.importer.Import(ctx, data)

	suffix := ImportedSuffix
	if importErr != nil {
		suffix = FailedSuffix
	}
	if err := os.Rename(path, path+suffix); err != nil {
		in.logger.Warn("could not mark inbox file", "path", path, "error", err)
	}

	return count, importErr
}
