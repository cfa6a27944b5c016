package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/seedkit/fixture"
)

func newPurgeCommand(root *rootOptions) *cobra.Command {
	var opts fixture.PurgeOptions
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Empty the stores of one backend",
		Long: `Purge deletes all data from every manager of a backend, or from one
manager with --manager. Integrity checks are disabled for the duration and
always restored.

Example:
  seedkit purge --backend orm
  seedkit purge --backend orm --manager reporting --truncate
  seedkit purge --backend document-store`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithLoader(cmd.Context(), root, cmd.ErrOrStderr(), func(ctx context.Context, l *fixture.Loader) error {
				purged, err := l.Purge(ctx, opts)
				for _, m := range purged {
					fmt.Fprintf(cmd.OutOrStdout(), "purged %s/%s\n", opts.Backend, m)
				}
				return err
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Backend, "backend", fixture.BackendORM, "persistence backend to purge")
	flags.StringVar(&opts.Manager, "manager", "", "purge only this manager")
	flags.BoolVar(&opts.Truncate, "truncate", false, "use TRUNCATE where the backend supports it")
	return cmd
}
