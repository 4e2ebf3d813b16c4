package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/itfview/internal/logging"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/trace"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// File reads a trace from disk and reports changes to it.
// It implements ports.TraceSource and ports.Watchable.
type File struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	last *domain.Trace
}

// Option configures a File source.
type Option func(*File)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(f *File) {
		f.debounce = d
	}
}

// WithLogger sets the logger used for watch errors.
func WithLogger(logger *slog.Logger) Option {
	return func(f *File) {
		f.logger = logger
	}
}

// NewFile creates a source for the ITF file at path.
func NewFile(path string, opts ...Option) *File {
	f := &File{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the file path.
func (f *File) Name() string {
	return f.path
}

// Load parses the file. A failed reload keeps returning the error; callers
// that want the last good trace use Last.
func (f *File) Load(ctx context.Context) (*domain.Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := trace.Load(f.path)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.last = t
	f.mu.Unlock()
	return t, nil
}

// Last returns the most recent successfully loaded trace, or nil.
func (f *File) Last() *domain.Trace {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Watch signals whenever the file is written, created or replaced.
// The parent directory is watched so that atomic saves (write temp, rename)
// are seen. The channel is closed when ctx is done.
func (f *File) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ch := make(chan struct{}, 1)
	go f.loop(ctx, w, ch)
	return ch, nil
}

func (f *File) loop(ctx context.Context, w *fsnotify.Watcher, ch chan struct{}) {
	defer close(ch)
	defer w.Close()

	timer := time.NewTimer(f.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			f.logger.Debug("trace file changed", "path", f.path, "op", event.Op.String())
			timer.Reset(f.debounce)

		case <-timer.C:
			select {
			case ch <- struct{}{}:
			default:
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.logger.Warn("Watch error", "path", f.path, "err", err)
		}
	}
}
