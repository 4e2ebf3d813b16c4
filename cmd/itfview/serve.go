package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/itfview/internal/cli"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve the trace in a browser",
		Long: `Starts an HTTP viewer for the trace in FILE. The page reloads its data from
disk on every request, /events streams a message when the file changes and
/metrics exposes Prometheus metrics.

View preferences are kept per browser in the configured store: memory, file
or redis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			if env.Config.View, err = viewOptions(cmd, env.Config.View); err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				env.Config.Server.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("addr") {
				env.Config.Server.Addr, _ = cmd.Flags().GetString("addr")
			}
			if cmd.Flags().Changed("store") {
				env.Config.Store.Backend, _ = cmd.Flags().GetString("store")
			}
			if err := env.Config.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return cli.Serve(ctx, env, args[0])
		},
	}
	addViewFlags(cmd)
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	cmd.Flags().String("addr", "127.0.0.1", "Address to bind")
	cmd.Flags().String("store", "memory", "Preference store: memory, file or redis")
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
