package ports

import (
	"context"

	"github.com/aretw0/itfview/pkg/domain"
)

// PreferenceStore persists the display options of each open view.
// A view is one viewer of one trace, e.g. a browser tab or an MCP client.
type PreferenceStore interface {
	// Save persists the options for a given view ID.
	Save(ctx context.Context, viewID string, opts domain.DisplayOptions) error

	// Load retrieves the options for a given view ID.
	// Returns domain.ErrViewNotFound if nothing is stored for the view.
	Load(ctx context.Context, viewID string) (domain.DisplayOptions, error)

	// Delete removes the options for a given view ID.
	// Deleting an unknown view is not an error.
	Delete(ctx context.Context, viewID string) error

	// List returns the IDs of every stored view.
	List(ctx context.Context) ([]string, error)
}
