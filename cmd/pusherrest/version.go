package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/pusherrest/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of pusherrest",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", serviceName, version.GetFullVersion())
			fmt.Fprintf(out, "Pusher-Library-Version: %s\n", version.Library())
		},
	}
}
