package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"customid/internal/scenepage"
)

func newSceneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scene <url>",
		Short: "Attach to a Stash page and open the add-ID dialog",
		Long: `Attach to a Stash page and open the add-ID dialog.

Locations that are not scene pages are left alone. For a scene page the
current stash IDs are shown and the dialog prompts for an instance and ID,
starting from instance.default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			out := cmd.OutOrStdout()
			sceneID, ok := scenepage.ParseScenePath(args[0])
			if !ok {
				fmt.Fprintf(out, "%s is not a scene page; nothing to attach\n", args[0])
				return nil
			}

			session, err := openSceneSession(cmd, ctx, args[0], sceneID, "")
			if err != nil {
				return err
			}
			defer session.release()
			if !session.attached {
				fmt.Fprintf(cmd.ErrOrStderr(), "Scene %s did not appear in Stash; add-ID skipped\n", sceneID)
				return nil
			}

			fmt.Fprintf(out, "Scene %s stash IDs:\n", sceneID)
			fmt.Fprintln(out, renderStashIDs(session.ids))
			return session.prompt(cmd)
		},
	}
}
