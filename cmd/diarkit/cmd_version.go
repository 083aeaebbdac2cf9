package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/diarkit/version"
)

func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if cmd.Flags().Changed("output") {
				format, _ := cmd.Flags().GetString("output")
				return writeOutput(cmd.OutOrStdout(), format, info)
			}
			if short, _ := cmd.Flags().GetBool("short"); short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Short())
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		},
	}
	c.Flags().Bool("short", false, "print the version only")
	return c
}
