package main

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	envFile    string
	quiet      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "seedkit",
		Short: "Load fixture data into databases and document stores",
		Long: `seedkit discovers YAML fixture files in the configured modules, orders
them, resolves @references between them and writes them through the
persistence backend each file names (orm or document-store).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: seedkit.yml or config.yml in the working directory)")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file merged into the environment before loading config")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the store summary")

	cmd.AddCommand(
		newLoadCommand(opts),
		newPurgeCommand(opts),
		newPlanCommand(opts),
		newVersionCommand(),
	)
	return cmd
}
