package itfview

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/layout"
	"github.com/aretw0/itfview/pkg/observability"
	"github.com/aretw0/itfview/pkg/render"
	"golang.org/x/sync/errgroup"
)

// Engine is the high-level entry point for rendering traces.
// It is stateless apart from its collaborators and safe for concurrent use.
type Engine struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records every render pass into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return eng
}

// Render lays out t according to opts. An empty view mode means chained
// tables.
func (e *Engine) Render(t *domain.Trace, opts domain.DisplayOptions) string {
	if t == nil {
		return ""
	}
	mode := opts.ViewMode
	if mode == "" {
		mode = domain.ChainedTables
	}
	vars := layout.Select(t.Vars, opts.SelectedVariables)

	start := time.Now()
	out := layout.Layout(t.States, vars, opts.ShowInitialState, mode)
	elapsed := time.Since(start)

	shown := displayedStates(len(t.States), opts.ShowInitialState)
	if e.metrics != nil {
		e.metrics.ObserveRender(string(mode), elapsed, shown)
		e.countChanges(t, vars, opts.ShowInitialState)
	}
	e.logger.Debug("trace rendered",
		"mode", mode,
		"vars", len(vars),
		"states", shown,
		"bytes", len(out),
		"duration", elapsed,
	)
	return out
}

// Views holds the output of both view modes for the same options.
type Views struct {
	Single  string
	Chained string
}

// For returns the view rendered for mode.
func (v Views) For(mode domain.ViewMode) string {
	if mode == domain.SingleTable {
		return v.Single
	}
	return v.Chained
}

// RenderModes renders both view modes concurrently. The view mode in opts is
// ignored.
func (e *Engine) RenderModes(ctx context.Context, t *domain.Trace, opts domain.DisplayOptions) (Views, error) {
	var views Views
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		o := opts
		o.ViewMode = domain.SingleTable
		views.Single = e.Render(t, o)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		o := opts
		o.ViewMode = domain.ChainedTables
		views.Chained = e.Render(t, o)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Views{}, err
	}
	return views, nil
}

func (e *Engine) countChanges(t *domain.Trace, vars []string, showInitial bool) {
	layout.Walk(t.States, vars, showInitial, func(r layout.Row) {
		for _, c := range r.Cells {
			if m := render.Marker(c.Diff); m != "" {
				e.metrics.ObserveChange(m)
			}
		}
	})
}

func displayedStates(n int, showInitial bool) int {
	if n > 0 && !showInitial {
		return n - 1
	}
	return n
}
