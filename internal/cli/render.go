package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/internal/presentation/page"
	"github.com/aretw0/itfview/internal/presentation/text"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/trace"
)

// Output formats of the render command.
const (
	FormatHTML = "html"
	FormatPage = "page"
	FormatText = "text"
)

// RenderOptions configures a one-shot render.
type RenderOptions struct {
	Path   string
	Format string
	Out    string
	View   domain.DisplayOptions
}

// Render writes the trace at opts.Path in the requested format, to opts.Out
// when set and to env.Out otherwise. An output file is replaced only when the
// whole render succeeds.
func Render(ctx context.Context, env *Env, opts RenderOptions) error {
	t, err := trace.Load(opts.Path)
	if err != nil {
		return err
	}

	if opts.Out == "" {
		return renderTo(env.Out, env, t, opts)
	}
	if err := renderFile(opts.Out, env, t, opts); err != nil {
		return err
	}
	env.Logger.Info("Trace rendered", "path", opts.Path, "out", opts.Out, "format", opts.Format)
	return nil
}

// renderFile renders into a temp file next to out and renames it into place.
func renderFile(out string, env *Env, t *domain.Trace, opts RenderOptions) (err error) {
	f, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to create output: %w", err)
	}

	if err := renderTo(f, env, t, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(f.Name(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func renderTo(w io.Writer, env *Env, t *domain.Trace, opts RenderOptions) error {
	engine := itfview.New(itfview.WithLogger(env.Logger))

	switch opts.Format {
	case FormatHTML, "":
		_, err := fmt.Fprintln(w, engine.Render(t, opts.View))
		return err
	case FormatPage:
		return page.Write(w, page.Data{
			Title:       filepath.Base(opts.Path),
			Vars:        t.Vars,
			Options:     opts.View,
			Body:        engine.Render(t, opts.View),
			Description: t.Meta.Description,
		})
	case FormatText:
		return text.NewTable(text.WithProfile(ColorProfile(w))).Write(w, t, opts.View)
	}
	return fmt.Errorf("unknown format %q (want %s, %s or %s)", opts.Format, FormatHTML, FormatPage, FormatText)
}
