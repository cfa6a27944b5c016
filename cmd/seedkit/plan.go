package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/seedkit/fixture"
)

func newPlanCommand(root *rootOptions) *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the fixture files a load would run, in order",
		Long: `Plan collects, parses and orders fixture files like load does and prints
the result without writing to any store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithLoader(cmd.Context(), root, cmd.ErrOrStderr(), func(ctx context.Context, l *fixture.Loader) error {
				records, skipped, err := l.Plan(ctx, tags...)
				if err != nil {
					return err
				}
				return printPlan(cmd.OutOrStdout(), records, skipped)
			})
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "only plan fixture files carrying this tag (repeatable)")
	return cmd
}
