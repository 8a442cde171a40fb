package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var verbose bool

	ctx := newCommandContext(&verbose)

	rootCmd := &cobra.Command{
		Use:           "forecourt",
		Short:         "Forecourt operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every resolution step")

	rootCmd.AddCommand(newIdentifyCommand(ctx))
	rootCmd.AddCommand(newVerificationsCommand(ctx))

	return rootCmd
}
