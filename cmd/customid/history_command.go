package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"customid/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var sceneRef string
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			outFormat, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			filter := journal.Filter{Limit: limit}
			if strings.TrimSpace(sceneRef) != "" {
				if filter.SceneID, err = sceneArg(sceneRef); err != nil {
					return err
				}
			}

			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("the submission journal is disabled (journal.enabled = false)")
			}
			entries, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []journal.Entry{}
			}

			switch outFormat {
			case formatJSON:
				return writeJSON(cmd, entries)
			case formatYAML:
				return writeYAML(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No submissions recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&sceneRef, "scene", "", "Only show submissions for this scene")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, or yaml")
	return cmd
}

func renderHistory(entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		endpoint := e.Endpoint
		if endpoint == "" {
			endpoint = e.BaseEndpoint
		}
		outcome := string(e.Outcome)
		if e.Error != "" {
			outcome += ": " + truncate(e.Error, 60)
		}
		rows = append(rows, []string{
			e.RecordedAt.Local().Format(time.DateTime),
			e.SceneID,
			endpoint,
			e.StashID,
			outcome,
		})
	}
	return renderTable(historyColumns, rows)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
