package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/pusherrest/restclient"
)

func newPostCmd(flags *globalFlags) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "post <resource>",
		Short: "Send a POST request with a JSON body",
		Example: `  pusherrest post /apps/123/events --data '{"name":"my-event","channels":["my-channel"],"data":"{}"}'
  pusherrest post /apps/123/batch_events --data @batch.json
  cat event.json | pusherrest post /apps/123/events --data -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(data, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return withClient(cmd.Context(), flags, cmd.ErrOrStderr(), func(ctx context.Context, c *restclient.Client) error {
				req := restclient.NewPostRequestFunc(args[0], func() (string, error) {
					return body, nil
				})

				var (
					res *restclient.TriggerResult
					err error
				)
				if flags.async {
					res, err = c.ExecutePostAsync(ctx, req).Wait(ctx)
				} else {
					res, err = c.ExecutePost(ctx, req)
				}
				if res == nil {
					return err
				}

				printResponse(cmd.OutOrStdout(), res.StatusCode(), res.Body())
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, @file to read a file, or - to read stdin")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

// readBody resolves the --data value and checks that it is JSON.
func readBody(data string, stdin io.Reader) (string, error) {
	var raw []byte
	switch {
	case data == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return "", fmt.Errorf("read body file: %w", err)
		}
		raw = b
	default:
		raw = []byte(data)
	}

	body := strings.TrimSpace(string(raw))
	if !json.Valid([]byte(body)) {
		return "", errors.New("--data is not valid JSON")
	}
	return body, nil
}
