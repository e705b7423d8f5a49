package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/moments/internal/buildinfo"
)

// NewRootCommand builds the command tree. Flag defaults come from the
// already loaded configuration, so a flag only wins when it is given.
func NewRootCommand(a *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "moments",
		Short:         "Publish journal thoughts with compressed, blurhashed images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	// Read before the tree is built (see flagx.ConfigPath); declared so
	// cobra accepts it.
	pf.StringVarP(&configPath, "config", "c", "", "path to a JSON or TOML config file")
	pf.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "debug, info, warn or error")
	pf.StringVar(&a.config.LogFormat, "log-format", a.config.LogFormat, "text or json")

	root.AddCommand(
		newPublishCommand(a),
		newCompressCommand(a),
		newHashCommand(a),
		newOrphansCommand(a),
		newListCommand(a),
		newShowCommand(a),
		newDeleteCommand(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)
	return root
}
