package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/internal/source"
	httpAdapter "github.com/aretw0/itfview/pkg/adapters/http"
	"github.com/aretw0/itfview/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP viewer for the trace at path until ctx is done.
func Serve(ctx context.Context, env *Env, path string) error {
	sessions, closeStore, err := setupPersistence(env.Config, env.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			env.Logger.Warn("Failed to close store", "err", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engine := itfview.New(
		itfview.WithLogger(env.Logger),
		itfview.WithMetrics(observability.NewMetrics(reg)),
	)

	src := source.NewFile(path, source.WithLogger(env.Logger))
	handler := httpAdapter.NewHandler(engine, src, sessions,
		httpAdapter.WithLogger(env.Logger),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithVersion(itfview.Version),
	)

	srv := &http.Server{
		Addr:              env.Config.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		env.Logger.Info("Starting itfview server", "addr", srv.Addr, "trace", path)
		fmt.Fprintf(env.Out, "Serving %s on http://%s\n", path, srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		env.Logger.Info("Start shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			env.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		env.Logger.Info("itfview server stopped gracefully")
		return nil
	}
}
