package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"customid/internal/preflight"
)

func newPingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to Stash and the local state directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.stashClient(cmd)
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, client)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatus(kind, fmt.Sprintf("%-16s %s", r.Name+":", r.Detail), colorize))
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
