package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"customid/internal/stashids"
)

type sceneIDsView struct {
	SceneID  string       `json:"scene_id" yaml:"scene_id"`
	StashIDs stashids.Set `json:"stash_ids" yaml:"stash_ids"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list <scene-id|scene-url>",
		Short: "Show the stash IDs of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseOutputFormat(format)
			if err != nil {
				return err
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

			view := sceneIDsView{SceneID: sceneID, StashIDs: ids}
			switch outFormat {
			case formatJSON:
				return writeJSON(cmd, view)
			case formatYAML:
				return writeYAML(cmd, view)
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintf(out, "Scene %s has no stash IDs\n", sceneID)
				return nil
			}
			fmt.Fprintln(out, renderStashIDs(ids))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, or yaml")
	return cmd
}
