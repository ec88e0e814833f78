package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kbukum/pusherrest/restclient"
)

func newGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "get <resource>",
		Short:   "Send a GET request for a resource path",
		Example: "  pusherrest get '/apps/123/channels?auth_key=...&auth_signature=...' --base-url https://api-eu.pusher.com",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), flags, cmd.ErrOrStderr(), func(ctx context.Context, c *restclient.Client) error {
				req := restclient.NewGetRequest(args[0])

				var (
					res *restclient.Result[json.RawMessage]
					err error
				)
				if flags.async {
					res, err = restclient.ExecuteGetAsync[json.RawMessage](ctx, c, req).Wait(ctx)
				} else {
					res, err = restclient.ExecuteGet[json.RawMessage](ctx, c, req)
				}
				if res == nil {
					return err
				}

				printResponse(cmd.OutOrStdout(), res.StatusCode(), res.Body())
				if err != nil {
					return err
				}
				_, err = res.Data()
				return err
			})
		},
	}
}
