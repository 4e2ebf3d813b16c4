package main

import (
	"github.com/aretw0/itfview/internal/cli"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Describe a trace: header, variables and length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			return cli.Info(cmdContext(cmd), env, args[0])
		},
	}
}
