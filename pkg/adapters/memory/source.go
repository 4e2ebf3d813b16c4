package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/trace"
)

// Source implements ports.TraceSource and ports.Watchable over a trace held
// in memory. Set replaces the trace and notifies watchers.
type Source struct {
	name string

	mu       sync.RWMutex
	trace    *domain.Trace
	watchers []chan struct{}
}

// NewSource creates a source serving t.
func NewSource(name string, t *domain.Trace) *Source {
	return &Source{name: name, trace: t}
}

// NewSourceFromJSON parses an ITF document and serves it.
// This improves DX for tests.
func NewSourceFromJSON(name, doc string) (*Source, error) {
	t, err := trace.Parse([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse trace %s: %w", name, err)
	}
	return NewSource(name, t), nil
}

// Name returns the label given at construction.
func (s *Source) Name() string {
	return s.name
}

// Load returns the current trace.
func (s *Source) Load(ctx context.Context) (*domain.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.trace == nil {
		return nil, fmt.Errorf("source %s: %w", s.name, domain.ErrMalformedTrace)
	}
	return s.trace, nil
}

// Set replaces the trace and signals every watcher.
func (s *Source) Set(t *domain.Trace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = t
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
			// A reload is already pending.
		}
	}
}

// Watch returns a channel signaled on every Set until ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}
