package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNextCommand(ctx *commandContext) *cobra.Command {
	var instance string
	var stashID string

	cmd := &cobra.Command{
		Use:   "next <scene-id|scene-url>",
		Short: "Show the endpoint variant the next add would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			base := strings.TrimSpace(instance)
			if base == "" {
				base = cfg.Instance.Default
			}
			if base == "" {
				return errors.New("--instance is required when instance.default is not configured")
			}
			sceneID, err := sceneArg(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.stashClient(cmd)
			if err != nil {
				return err
			}
			ids, err := client.FetchIDs(cmd.Context(), sceneID)
			if err != nil {
				return err
			}

			matcher := ctx.matcher()
			out := cmd.OutOrStdout()
			if id := strings.TrimSpace(stashID); id != "" && matcher.Exists(base, id, ids) {
				fmt.Fprintf(out, "%s is already linked to %s; nothing would be written\n", id, base)
				return nil
			}
			fmt.Fprintln(out, matcher.Allocate(base, ids))
			return nil
		},
	}

	cmd.Flags().StringVar(&instance, "instance", "", "Instance URL (defaults to instance.default)")
	cmd.Flags().StringVar(&stashID, "id", "", "Also report whether this ID is already linked")
	return cmd
}
