package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/itfview"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of itfview",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "itfview version %s\n", strings.TrimSpace(itfview.Version))
		},
	}
}
