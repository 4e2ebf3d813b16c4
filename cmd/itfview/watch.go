package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/itfview/internal/cli"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Print the trace table and reprint it when the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			view, err := viewOptions(cmd, env.Config.View)
			if err != nil {
				return err
			}
			debounce, _ := cmd.Flags().GetDuration("debounce")

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return cli.Watch(ctx, env, args[0], view, debounce)
		},
	}
	addViewFlags(cmd)
	cmd.Flags().Duration("debounce", 0, "Wait this long after the last change before reprinting")
	return cmd
}
