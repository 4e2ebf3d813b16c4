package main

import (
	"fmt"

	"github.com/aretw0/itfview/internal/cli"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "itfview",
		Short: "Render ITF traces as tables that highlight what changed",
		Long: `itfview renders ITF traces (as produced by Apalache) as HTML or terminal
tables. Every state is compared with the one before it: new values, changed
values, collections that lost members and records whose fields changed are
all marked.`,
		SilenceUsage: true,
	}
	cmd.SetErrPrefix("Error:")

	cmd.PersistentFlags().String("config", "", "Config file (default ./itfview.yaml when present)")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")

	cmd.AddCommand(
		newRenderCmd(),
		newServeCmd(),
		newWatchCmd(),
		newInfoCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setup builds the command environment from the persistent flags.
func setup(cmd *cobra.Command) (*cli.Env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Setup(configPath, debug, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// addViewFlags registers the flags that override the configured view.
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("vars", nil, "Variables to show (default all)")
	cmd.Flags().Bool("initial", false, "Show the initial state")
	cmd.Flags().String("mode", "", "View mode: single or chained")
}

// viewOptions applies the view flags the user set on top of base.
func viewOptions(cmd *cobra.Command, base domain.DisplayOptions) (domain.DisplayOptions, error) {
	opts := base
	if cmd.Flags().Changed("vars") {
		vars, _ := cmd.Flags().GetStringSlice("vars")
		opts.SelectedVariables = append([]string{}, vars...)
	}
	if cmd.Flags().Changed("initial") {
		opts.ShowInitialState, _ = cmd.Flags().GetBool("initial")
	}
	if cmd.Flags().Changed("mode") {
		m, _ := cmd.Flags().GetString("mode")
		mode, err := domain.ParseViewMode(m)
		if err != nil {
			return opts, fmt.Errorf("--mode: %w", err)
		}
		opts.ViewMode = mode
	}
	return opts, nil
}
