package main

import (
	"github.com/aretw0/itfview/internal/cli"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a trace once",
		Long: `Renders the trace in FILE and writes it to stdout or --out.

Formats:
- html: the bare tables, to embed in another page (default)
- page: a standalone HTML page with the trace description
- text: a terminal table with change markers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			view, err := viewOptions(cmd, env.Config.View)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")

			return cli.Render(cmd.Context(), env, cli.RenderOptions{
				Path:   args[0],
				Format: format,
				Out:    out,
				View:   view,
			})
		},
	}
	addViewFlags(cmd)
	cmd.Flags().StringP("format", "f", cli.FormatHTML, "Output format: html, page or text")
	cmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	return cmd
}
