package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   serviceName,
		Short: "Call the Pusher HTTP API",
		Long: `pusherrest sends GET and POST requests to a Pusher REST API host and
prints the status and raw response body. Requests are sent as given:
signing parameters must already be part of the resource path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default searches ./pusherrest.yml, ./config/, the user config dir)")
	pf.StringVar(&flags.baseURL, "base-url", "", "API base URL, e.g. https://api-eu.pusher.com")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "timeout for blocking calls (default 30s)")
	pf.BoolVar(&flags.async, "async", false, "run the call on the asynchronous path")

	root.AddCommand(newGetCmd(flags), newPostCmd(flags), newVersionCmd())
	return root
}

// printResponse writes the status line and the raw body.
func printResponse(w io.Writer, status int, body string) {
	fmt.Fprintf(w, "HTTP %d\n", status)
	if body != "" {
		fmt.Fprintln(w, body)
	}
}
