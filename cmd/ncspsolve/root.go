package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var paramsPath string

	cmd := &cobra.Command{
		Use:           "ncspsolve <problem>",
		Short:         "Solve a numerical constraint satisfaction problem",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args[0], paramsPath)
		},
	}
	cmd.Flags().StringVarP(&paramsPath, "params", "p", "", "parameter file (KEY = value)")
	return cmd
}
