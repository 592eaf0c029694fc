package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"customid/internal/dialog"
	"customid/internal/journal"
	"customid/internal/services"
	"customid/internal/stashids"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var instance string
	var stashID string

	cmd := &cobra.Command{
		Use:   "add <scene-id|scene-url>",
		Short: "Add a custom stash ID to a scene",
		Long: `Add a custom stash ID to a scene.

With --id the ID is submitted directly under --instance, or under
instance.default when --instance is omitted. Otherwise the dialog prompts for
both values; an empty answer keeps the value in brackets and ":q" cancels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sceneID, err := sceneArg(args[0])
			if err != nil {
				return err
			}

			session, err := openSceneSession(cmd, ctx, args[0], sceneID, strings.TrimSpace(instance))
			if err != nil {
				return err
			}
			defer session.release()
			if !session.attached {
				return fmt.Errorf("scene %s not found in Stash", sceneID)
			}

			if !cmd.Flags().Changed("id") {
				return session.prompt(cmd)
			}

			base := strings.TrimSpace(instance)
			if base == "" {
				base = cfg.Instance.Default
			}
			if base == "" {
				return errors.New("--id requires --instance or instance.default in the configuration")
			}
			if err := session.dialog.Open(sceneID); err != nil {
				return err
			}
			result, err := session.dialog.Submit(cmd.Context(), base, stashID)
			if err != nil {
				_ = session.dialog.Cancel()
				return submitError(err)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&instance, "instance", "", "Instance URL (defaults to instance.default)")
	cmd.Flags().StringVar(&stashID, "id", "", "Stash ID to add")
	return cmd
}

// sceneSession holds the per-scene lock and the attached dialog for one
// command run.
type sceneSession struct {
	sceneID  string
	attached bool
	ids      stashids.Set
	dialog   *dialog.Controller
	lock     *journal.SceneLock
}

func (s *sceneSession) release() {
	if s.lock != nil {
		_ = s.lock.Release()
	}
}

// openSceneSession locks the scene, builds the surface and attaches it to
// location. Lookup failures are returned; a missing scene leaves attached
// false.
func openSceneSession(cmd *cobra.Command, ctx *commandContext, location, sceneID, instance string) (*sceneSession, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}

	lock, err := journal.LockScene(cfg.LockDir(), sceneID)
	if err != nil {
		if errors.Is(err, journal.ErrSceneLocked) {
			return nil, fmt.Errorf("another customid process is adding an ID to scene %s", sceneID)
		}
		return nil, err
	}
	session := &sceneSession{sceneID: sceneID, lock: lock}

	stdout := cmd.OutOrStdout()
	surface, err := ctx.surface(cmd, surfaceOptions{
		defaultInstance: instance,
		notifier:        newStatusNotifier(cmd.ErrOrStderr()),
		refresher: dialog.RefresherFunc(func(_ context.Context, sceneID string, ids stashids.Set) error {
			fmt.Fprintf(stdout, "Scene %s stash IDs:\n", sceneID)
			fmt.Fprintln(stdout, renderStashIDs(ids))
			return nil
		}),
	})
	if err != nil {
		session.release()
		return nil, err
	}

	attachment, err := surface.Attach(cmd.Context(), location)
	if err != nil {
		session.release()
		if services.Classify(err) == services.DispositionUnavailable {
			return nil, fmt.Errorf("add-id unavailable for scene %s: %w", sceneID, err)
		}
		return nil, fmt.Errorf("look up scene %s: %w", sceneID, err)
	}
	if !attachment.Attached {
		return session, nil
	}
	dlg, err := surface.Dialog()
	if err != nil {
		session.release()
		return nil, err
	}
	session.attached = true
	session.ids = attachment.IDs
	session.dialog = dlg
	return session, nil
}

// prompt runs the interactive dialog until it closes or is cancelled.
func (s *sceneSession) prompt(cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()
	if isInteractive(cmd.InOrStdin()) {
		fmt.Fprintf(stdout, "Add custom ID to scene %s (:q to cancel)\n", s.sceneID)
	}
	result, err := dialog.Prompt(cmd.Context(), s.dialog, s.sceneID, cmd.InOrStdin(), stdout)
	if errors.Is(err, dialog.ErrCancelled) {
		fmt.Fprintln(stdout, "Cancelled")
		return nil
	}
	if err != nil {
		return submitError(err)
	}
	printResult(stdout, result)
	return nil
}

func printResult(w io.Writer, result dialog.Result) {
	switch result.Outcome {
	case dialog.OutcomeAdded:
		fmt.Fprintf(w, "Added %s as %s\n", result.StashID, result.Endpoint)
	case dialog.OutcomeDuplicate:
		fmt.Fprintf(w, "No change: %s is already linked to %s\n", result.StashID, result.BaseEndpoint)
	}
}

// reportedError marks a failure the dialog already showed as a notice.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// submitError wraps dialog failures that were already announced so main does
// not print them a second time.
func submitError(err error) error {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrLookup), errors.Is(err, services.ErrPersist):
		return &reportedError{err: err}
	default:
		return err
	}
}

func alreadyReported(err error) bool {
	var reported *reportedError
	return errors.As(err, &reported)
}
