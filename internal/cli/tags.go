package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/loredump/internal/tui"
	"github.com/kittclouds/loredump/pkg/catalog"
	"github.com/kittclouds/loredump/pkg/lore"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag commands",
	}
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsAddCmd(app))
	cmd.AddCommand(newTagsEditCmd(app))
	cmd.AddCommand(newTagsRmCmd(app))
	cmd.AddCommand(newTagsSyncCmd(app))
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				tags := w.sess.SearchTags(search)
				if app.JSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"data": tags})
				}
				for _, t := range tags {
					printf(cmd, "%-20s %-24s %s\n", t.ID, tui.Chip(t.Name, t.Color), strings.Join(t.Terms, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name or term")
	return cmd
}

func newTagsAddCmd(app *App) *cobra.Command {
	var (
		color string
		terms []string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				tag, err := w.sess.AddTag(args[0], lore.Color(color), terms)
				if err != nil {
					return err
				}
				printf(cmd, "Created tag %s (%s)\n", tui.Chip(tag.Name, tag.Color), tag.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", string(lore.DefaultColor), "Palette color")
	cmd.Flags().StringSliceVar(&terms, "terms", nil, "Match terms (default: the name)")
	return cmd
}

func newTagsEditCmd(app *App) *cobra.Command {
	var (
		name  string
		color string
		terms []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename, recolor or retarget a tag; entries follow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				var upd catalog.TagUpdate
				if cmd.Flags().Changed("name") {
					upd.Name = &name
				}
				if cmd.Flags().Changed("color") {
					c := lore.Color(color)
					upd.Color = &c
				}
				if cmd.Flags().Changed("terms") {
					upd.Terms = terms
					if upd.Terms == nil {
						upd.Terms = []string{}
					}
				}
				tag, err := w.sess.UpdateTag(args[0], upd)
				if err != nil {
					return err
				}
				printf(cmd, "Updated tag %s (%s)\n", tui.Chip(tag.Name, tag.Color), tag.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&color, "color", "c", "", "New color")
	cmd.Flags().StringSliceVar(&terms, "terms", nil, "Replace match terms")
	return cmd
}

func newTagsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag and strip it from every entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				if err := w.sess.DeleteTag(args[0]); err != nil {
					return err
				}
				printf(cmd, "Deleted tag %s\n", args[0])
				return nil
			})
		},
	}
}

func newTagsSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Create tags for names used by entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				created := w.sess.SyncTags()
				printCreatedTags(cmd, created)
				printf(cmd, "%d tag(s) created\n", len(created))
				return nil
			})
		},
	}
}
