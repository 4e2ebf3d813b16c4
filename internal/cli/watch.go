package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/internal/presentation/text"
	"github.com/aretw0/itfview/internal/presentation/tui"
	"github.com/aretw0/itfview/internal/source"
	"github.com/aretw0/itfview/pkg/domain"
)

// Watch prints the terminal table of the trace and prints it again every time
// the file changes, until ctx is done. A broken file is reported and the
// watch goes on.
func Watch(ctx context.Context, env *Env, path string, view domain.DisplayOptions, debounce time.Duration) error {
	if IsTTY(env.Out) {
		tui.PrintBanner(env.Out, itfview.Version)
	}

	opts := []source.Option{source.WithLogger(env.Logger)}
	if debounce > 0 {
		opts = append(opts, source.WithDebounce(debounce))
	}
	src := source.NewFile(path, opts...)

	changes, err := src.Watch(ctx)
	if err != nil {
		return err
	}
	env.Logger.Info("Starting Watcher", "path", path)

	table := text.NewTable(text.WithProfile(ColorProfile(env.Out)))
	show := func() {
		t, err := src.Load(ctx)
		if err != nil {
			fmt.Fprintf(env.Err, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(env.Out, "%s  %s\n", time.Now().Format(time.TimeOnly), path)
		if err := table.Write(env.Out, t, view); err != nil {
			fmt.Fprintf(env.Err, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(env.Out, text.Legend())
	}

	show()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			env.Logger.Debug("Change detected, re-rendering", "path", path)
			show()
		}
	}
}
