package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/itfview/internal/presentation/tui"
	"github.com/aretw0/itfview/pkg/trace"
)

// Info prints a summary of the trace at path: header, description and
// variables.
func Info(ctx context.Context, env *Env, path string) error {
	t, err := trace.Load(path)
	if err != nil {
		return err
	}

	render := tui.NewPlainRenderer()
	if IsTTY(env.Out) {
		render = tui.NewRenderer()
	}

	out, err := render(tui.InfoMarkdown(filepath.Base(path), t))
	if err != nil {
		return fmt.Errorf("failed to render info: %w", err)
	}
	_, err = fmt.Fprint(env.Out, out)
	return err
}
