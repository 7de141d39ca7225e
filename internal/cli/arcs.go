package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/loredump/internal/tui"
	"github.com/kittclouds/loredump/pkg/lore"
)

func newArcsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arcs",
		Short: "Arc commands",
	}
	cmd.AddCommand(newArcsListCmd(app))
	cmd.AddCommand(newArcsNameCmd(app))
	cmd.AddCommand(newArcsColorCmd(app))
	return cmd
}

func newArcsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List arcs that have entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				keys := w.sess.ArcKeys()
				if app.JSON {
					arcs := make([]lore.KeyedArc, len(keys))
					for i, k := range keys {
						arcs[i] = lore.KeyedArc{Key: k, Arc: w.sess.Arc(k)}
					}
					return writeJSON(cmd.OutOrStdout(), map[string]any{"data": arcs})
				}
				for _, k := range keys {
					a := w.sess.Arc(k)
					name := a.Name
					if name == "" {
						name = "(unnamed)"
					}
					printf(cmd, "%-4s %s\n", k, tui.Chip(name, a.Color))
				}
				return nil
			})
		},
	}
}

func newArcsNameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "name <key> <name>",
		Short: "Name an arc",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				key, err := arcKeyArg(args[0])
				if err != nil {
					return err
				}
				a := w.sess.SetArcName(key, args[1])
				printf(cmd, "Arc %s: %s\n", key, tui.Chip(a.Name, a.Color))
				return nil
			})
		},
	}
}

func newArcsColorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "color <key> <color>",
		Short: "Recolor an arc",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(w *workspace) error {
				key, err := arcKeyArg(args[0])
				if err != nil {
					return err
				}
				color := lore.Color(strings.ToLower(strings.TrimSpace(args[1])))
				if !color.Valid() {
					return fmt.Errorf("invalid color %q; choose one of %s", args[1], paletteList())
				}
				a := w.sess.SetArcColor(key, color)
				printf(cmd, "Arc %s: %s\n", key, a.Color)
				return nil
			})
		},
	}
}

// arcKeyArg accepts an integer arc key and returns its canonical form.
func arcKeyArg(s string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid arc key %q: must be an integer", s)
	}
	return strconv.Itoa(n), nil
}

func paletteList() string {
	names := make([]string, len(lore.Palette))
	for i, c := range lore.Palette {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
