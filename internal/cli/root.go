// Package cli implements the loredump command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hack-pad/hackpadfs"
	hpos "github.com/hack-pad/hackpadfs/os"
	"github.com/spf13/cobra"

	"github.com/kittclouds/loredump/internal/config"
	"github.com/kittclouds/loredump/internal/draft"
	"github.com/kittclouds/loredump/internal/session"
	"github.com/kittclouds/loredump/internal/store"
)

// App holds the persistent flags and the collaborators commands open.
type App struct {
	ConfigPath string
	DSN        string
	DraftDir   string
	LogLevel   string
	JSON       bool

	openStore  func(dsn string) (store.Storer, error)
	openDrafts func(dir string) (hackpadfs.FS, error)
}

// Option overrides how App reaches its storage.
type Option func(*App)

// WithStore makes every command use s as the remote store.
func WithStore(s store.Storer) Option {
	return func(a *App) {
		a.openStore = func(string) (store.Storer, error) { return s, nil }
	}
}

// WithDraftFS makes every command keep its draft on fsys.
func WithDraftFS(fsys hackpadfs.FS) Option {
	return func(a *App) {
		a.openDrafts = func(string) (hackpadfs.FS, error) { return fsys, nil }
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	app := &App{
		openStore: func(dsn string) (store.Storer, error) {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, err
			}
			return store.NewSQLiteStoreWithDSN(dsn)
		},
		openDrafts: openDraftDir,
	}
	for _, opt := range opts {
		opt(app)
	}

	cmd := &cobra.Command{
		Use:          "loredump",
		Short:        "Lore database editor with offline drafts and selective publish",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse entries tagged Hero that mention the gate
  loredump list --tag Hero --search gate

  # Add an entry; missing tags are created from the reference
  loredump add --desc "Hero reaches the gate" --tags "Hero|blue"

  # Review and publish local changes
  loredump diff
  loredump publish --interactive
`),
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default ~/.loredump/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.DSN, "dsn", "", "SQLite database of the published document")
	cmd.PersistentFlags().StringVar(&app.DraftDir, "draft-dir", "", "Directory holding the local draft")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Write JSON instead of text")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newNextCmd(app))
	cmd.AddCommand(newSuggestCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newArcsCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newDiffCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDiscardCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	return cmd
}

func openDraftDir(dir string) (hackpadfs.FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	root := hpos.NewFS()
	rel := strings.TrimPrefix(filepath.ToSlash(abs), "/")
	return root.Sub(rel)
}

// =============================================================================
// Workspace
// =============================================================================

// workspace is everything one command invocation works with.
type workspace struct {
	cfg    config.Config
	store  store.Storer
	drafts *draft.Manager
	sess   *session.Session
	logger *slog.Logger
}

func (w *workspace) Close() error {
	return w.store.Close()
}

func (a *App) loadConfig() (config.Config, error) {
	path := a.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if a.DSN != "" {
		cfg.Remote.DSN = a.DSN
	}
	if a.DraftDir != "" {
		cfg.Draft.Dir = a.DraftDir
	}
	if a.LogLevel != "" {
		cfg.Log.Level = a.LogLevel
	}
	return cfg, cfg.Validate()
}

// open wires config, logger, stores and session and loads the session.
func (a *App) open(cmd *cobra.Command) (*workspace, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	st, err := a.openStore(cfg.Remote.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote store: %w", err)
	}
	fsys, err := a.openDrafts(cfg.Draft.Dir)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to open draft directory: %w", err)
	}

	drafts := draft.NewManager(fsys, draft.Options{Logger: logger})
	sess := session.New(session.Config{
		Remote: st,
		Drafts: drafts,
		Logger: logger,
		Sort:   cfg.SortMode(),
	})
	if err := sess.Load(ctx(cmd)); err != nil {
		st.Close()
		return nil, err
	}
	return &workspace{cfg: cfg, store: st, drafts: drafts, sess: sess, logger: logger}, nil
}

// run opens a workspace, calls fn and closes it.
func (a *App) run(cmd *cobra.Command, fn func(w *workspace) error) error {
	w, err := a.open(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	return fn(w)
}

func ctx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

// =============================================================================
// Output
// =============================================================================

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
