package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kittclouds/loredump/internal/reconcile"
	"github.com/kittclouds/loredump/internal/tui"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether local changes are unpublished",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				d := w.sess.Diff()
				if app.JSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"pending": !d.Empty(),
						"changes": d.Len(),
					})
				}
				if d.Empty() {
					printf(cmd, "Up to date\n")
					return nil
				}
				printf(cmd, "%d unpublished change(s): %d entries, %d tags, %d arcs\n",
					d.Len(), d.Entries.Len(), d.Tags.Len(), d.Arcs.Len())
				return nil
			})
		},
	}
}

func newDiffCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show local changes against the published document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				r := w.sess.Review()
				if app.JSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"data": r.Changes()})
				}
				return reconcile.WriteText(cmd.OutOrStdout(), r)
			})
		},
	}
}

func newPublishCmd(app *App) *cobra.Command {
	var (
		exclude     []string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish local changes, optionally leaving some out",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				r := w.sess.Review()
				if r.Empty() {
					printf(cmd, "No changes detected.\n")
					return nil
				}
				for _, id := range exclude {
					if err := r.Set(id, false); err != nil {
						return err
					}
				}

				if interactive {
					return publishInteractive(cmd, w, r)
				}

				res, err := w.sess.Publish(ctx(cmd), r)
				if err != nil {
					return err
				}
				printPublished(cmd, res)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&exclude, "exclude", "x", nil, "Change id to leave out, e.g. tags/hero (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose changes in a terminal review")
	return cmd
}

func publishInteractive(cmd *cobra.Command, w *workspace, r *reconcile.Review) error {
	publish := func(c context.Context, rv *reconcile.Review) (reconcile.Result, error) {
		return w.sess.Publish(c, rv)
	}
	tui.ApplyColorProfile()
	p := tea.NewProgram(tui.New(ctx(cmd), r, publish),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()))
	final, err := p.Run()
	if err != nil {
		return err
	}
	m := final.(tui.Model)
	if res, ok := m.Published(); ok {
		printPublished(cmd, res)
		return nil
	}
	if err := m.Err(); err != nil {
		return err
	}
	printf(cmd, "Nothing published.\n")
	return nil
}

func printPublished(cmd *cobra.Command, res reconcile.Result) {
	printf(cmd, "Published %d change(s)", res.Published)
	if res.Remaining > 0 {
		printf(cmd, "; %d kept as draft", res.Remaining)
	}
	printf(cmd, "\n")
}

func newDiscardCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Throw away local changes and return to the published document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("discard cannot be undone; pass --yes to confirm")
			}
			return app.run(cmd, func(w *workspace) error {
				if err := w.sess.Discard(); err != nil {
					return err
				}
				printf(cmd, "Local changes discarded\n")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List published versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				revs, err := w.store.ListRevisions(ctx(cmd))
				if err != nil {
					return err
				}
				if app.JSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"data": revs})
				}
				for _, r := range revs {
					mark := " "
					if r.IsCurrent {
						mark = "*"
					}
					printf(cmd, "%s v%-4d %s  %-8s %d entries, %d tags, %d arcs\n",
						mark, r.Version,
						time.UnixMilli(r.ValidFrom).UTC().Format(time.RFC3339),
						r.ChangeReason, r.EntryCount, r.TagCount, r.ArcCount)
				}
				return nil
			})
		},
	}
}

func newRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <version>",
		Short: "Publish an older version again",
		Long:  "Restore writes the content of an older version as a new current version. Local drafts are kept and will diff against it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return app.run(cmd, func(w *workspace) error {
				if _, err := w.store.RestoreRevision(ctx(cmd), version); err != nil {
					return err
				}
				printf(cmd, "Restored version %d\n", version)
				return nil
			})
		},
	}
}
