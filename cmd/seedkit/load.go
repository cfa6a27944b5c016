package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/seedkit/fixture"
)

func newLoadCommand(root *rootOptions) *cobra.Command {
	var opts fixture.LoadOptions
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load fixtures from every configured module",
		Long: `Load discovers the fixture files of every configured module, orders them
and writes them through their persistence backend. With --tag only files
sharing one of the given tags are loaded.

Example:
  seedkit load
  seedkit load --purge --truncate
  seedkit load --tag demo --tag smoke`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithLoader(cmd.Context(), root, cmd.ErrOrStderr(), func(ctx context.Context, l *fixture.Loader) error {
				report, err := l.Run(ctx, opts)
				if report != nil {
					printReport(cmd.OutOrStdout(), report)
				}
				return err
			})
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.Purge, "purge", false, "empty every backend the run writes to before loading")
	flags.BoolVar(&opts.Truncate, "truncate", false, "purge with TRUNCATE where the backend supports it")
	flags.StringSliceVar(&opts.Tags, "tag", nil, "only load fixture files carrying this tag (repeatable)")
	return cmd
}
