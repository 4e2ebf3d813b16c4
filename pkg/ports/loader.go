package ports

import (
	"context"

	"github.com/aretw0/itfview/pkg/domain"
)

// TraceSource defines where display surfaces read their trace from.
// This allows the document origin (file, memory) to be decoupled.
type TraceSource interface {
	// Load returns the current version of the trace.
	Load(ctx context.Context) (*domain.Trace, error)

	// Name describes the source for display, e.g. a file path.
	Name() string
}

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for live reload.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying trace changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
