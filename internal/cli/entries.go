package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/loredump/internal/tui"
	"github.com/kittclouds/loredump/pkg/lore"
	"github.com/kittclouds/loredump/pkg/view"
)

func newListCmd(app *App) *cobra.Command {
	var (
		search string
		tags   []string
		sort   string
		facets bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries matching a search and tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				w.sess.SetSearch(search)
				for _, t := range tags {
					w.sess.ToggleTag(t)
				}
				if sort != "" {
					w.sess.SetSort(view.ParseSortMode(sort))
				}

				res := w.sess.View()
				if app.JSON {
					out := map[string]any{"data": res}
					if facets {
						out["facets"] = w.sess.Facets()
					}
					return writeJSON(cmd.OutOrStdout(), out)
				}

				for _, e := range res.Entries {
					printEntryLine(cmd, e)
				}
				printf(cmd, "Showing %d of %d entries\n", res.Stats.Filtered, res.Stats.Total)
				if facets {
					for _, f := range w.sess.Facets() {
						mark := " "
						if f.Selected {
							mark = "*"
						}
						printf(cmd, "%s %s (%d)\n", mark, tui.Chip(f.Name, f.Color), f.Count)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only entries whose description contains this")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Only entries carrying this tag (repeatable)")
	cmd.Flags().StringVar(&sort, "sort", "", "entry-asc or entry-desc (default from config)")
	cmd.Flags().BoolVar(&facets, "facets", false, "Also list the tags still available as filters")
	return cmd
}

func printEntryLine(cmd *cobra.Command, e lore.Entry) {
	line := fmt.Sprintf("#%-6s %s", e.Number, e.Description)
	if len(e.Tags) > 0 {
		line += "  " + tui.Chips(e.Tags)
	}
	printf(cmd, "%s\n", line)
}

func newShowCmd(app *App) *cobra.Command {
	var (
		markdown bool
		width    int
	)

	cmd := &cobra.Command{
		Use:   "show <number>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				e, ok := w.sess.Entry(args[0])
				if !ok {
					return errNotFound("entry", args[0])
				}
				if app.JSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"data": e})
				}
				printf(cmd, "Entry #%s\n", e.Number)
				if key, ok := lore.ArcKey(e.Number); ok {
					arc := w.sess.Arc(key)
					name := arc.Name
					if name == "" {
						name = "Arc " + key
					}
					printf(cmd, "Arc:  %s\n", tui.Chip(name, arc.Color))
				}
				desc := e.Description
				if markdown {
					desc = tui.RenderMarkdown(desc, width)
				}
				printf(cmd, "Tags: %s\n\n%s\n", tui.Chips(e.Tags), desc)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&markdown, "markdown", "m", false, "Render the description as markdown")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --markdown")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	var (
		number string
		desc   string
		tags   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				if strings.TrimSpace(number) == "" {
					number = strconv.Itoa(w.sess.NextNumber())
				}
				e := lore.Entry{Number: number, Description: desc, Tags: lore.ParseTagRefs(tags)}
				created, err := w.sess.AddEntry(e)
				if err != nil {
					return err
				}
				printf(cmd, "Added entry #%s\n", strings.TrimSpace(number))
				printCreatedTags(cmd, created)
				printSuggestions(cmd, w.sess.Suggest(desc, e.Tags))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&number, "number", "n", "", "Entry number (default: next free)")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().StringVar(&tags, "tags", "", `Tags as "name|color, name|color"`)
	_ = cmd.MarkFlagRequired("desc")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var (
		number string
		desc   string
		tags   string
	)

	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Edit an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				e, ok := w.sess.Entry(args[0])
				if !ok {
					return errNotFound("entry", args[0])
				}
				if cmd.Flags().Changed("number") {
					e.Number = number
				}
				if cmd.Flags().Changed("desc") {
					e.Description = desc
				}
				if cmd.Flags().Changed("tags") {
					e.Tags = lore.ParseTagRefs(tags)
				}
				created, err := w.sess.UpdateEntry(args[0], e)
				if err != nil {
					return err
				}
				printf(cmd, "Updated entry #%s\n", strings.TrimSpace(e.Number))
				printCreatedTags(cmd, created)
				printSuggestions(cmd, w.sess.Suggest(e.Description, e.Tags))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&number, "number", "n", "", "New entry number")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "New description")
	cmd.Flags().StringVar(&tags, "tags", "", `New tags as "name|color, name|color"`)
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <number>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				if err := w.sess.DeleteEntry(args[0]); err != nil {
					return err
				}
				printf(cmd, "Deleted entry #%s\n", args[0])
				return nil
			})
		},
	}
}

func newNextCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Print the next free entry number",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				printf(cmd, "%d\n", w.sess.NextNumber())
				return nil
			})
		},
	}
}

func newSuggestCmd(app *App) *cobra.Command {
	var current string

	cmd := &cobra.Command{
		Use:   "suggest <text>",
		Short: "Suggest tags whose terms appear in text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				got := w.sess.Suggest(strings.Join(args, " "), lore.ParseTagRefs(current))
				if app.JSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"data": got})
				}
				for _, t := range got {
					printf(cmd, "%s\n", tui.Chip(t.Name, t.Color))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&current, "tags", "", "Tags already on the entry")
	return cmd
}

func printCreatedTags(cmd *cobra.Command, created []lore.Tag) {
	for _, t := range created {
		printf(cmd, "Created tag %s\n", tui.Chip(t.Name, t.Color))
	}
}

func printSuggestions(cmd *cobra.Command, tags []lore.Tag) {
	if len(tags) == 0 {
		return
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = tui.Chip(t.Name, t.Color)
	}
	printf(cmd, "Suggested tags: %s\n", strings.Join(names, ", "))
}

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}
