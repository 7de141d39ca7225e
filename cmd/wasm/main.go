//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/hack-pad/hackpadfs/indexeddb"

	"github.com/kittclouds/loredump/internal/draft"
	"github.com/kittclouds/loredump/internal/session"
	"github.com/kittclouds/loredump/pkg/catalog"
	"github.com/kittclouds/loredump/pkg/events"
	"github.com/kittclouds/loredump/pkg/lore"
	"github.com/kittclouds/loredump/pkg/view"
)

// Version info
const Version = "0.1.0"

// DraftDB is the IndexedDB database holding the local draft.
const DraftDB = "loredump"

var (
	sess   *session.Session
	bus    = events.NewBus()
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	errNoSession = errors.New("call init first")

	unsubscribe func()
)

func main() {
	logger.Info("LoreDump WASM ready", "version", Version)

	js.Global().Set("LoreDump", js.ValueOf(map[string]interface{}{
		"version": js.FuncOf(getVersion),
		"init":    js.FuncOf(initialize),
		// View state
		"view":         js.FuncOf(getView),
		"setSearch":    js.FuncOf(setSearch),
		"toggleTag":    js.FuncOf(toggleTag),
		"clearFilters": js.FuncOf(clearFilters),
		"setSort":      js.FuncOf(setSort),
		// Entries
		"nextNumber":  js.FuncOf(nextNumber),
		"addEntry":    js.FuncOf(addEntry),
		"updateEntry": js.FuncOf(updateEntry),
		"deleteEntry": js.FuncOf(deleteEntry),
		"suggest":     js.FuncOf(suggest),
		// Tags and arcs
		"tags":         js.FuncOf(listTags),
		"autocomplete": js.FuncOf(autocomplete),
		"addTag":       js.FuncOf(addTag),
		"updateTag":    js.FuncOf(updateTag),
		"deleteTag":    js.FuncOf(deleteTag),
		"syncTags":     js.FuncOf(syncTags),
		"setArc":       js.FuncOf(setArc),
		// Sync
		"diff":    js.FuncOf(diff),
		"publish": js.FuncOf(publish),
		"discard": js.FuncOf(discard),
	}))

	select {}
}

// getVersion returns the module version
func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// =============================================================================
// Setup
// =============================================================================

// initialize: [remote object, onEvent function (optional), sort string (optional)]
// Returns a Promise settling once the document is loaded.
func initialize(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("init requires 1+ args: remote, [onEvent], [sort]")
	}
	remote, err := newJSRemote(args[0])
	if err != nil {
		return errorResult(err.Error())
	}
	var onEvent js.Value
	if len(args) > 1 && args[1].Type() == js.TypeFunction {
		onEvent = args[1]
	}
	sort := view.SortAscending
	if len(args) > 2 && args[2].Type() == js.TypeString {
		sort = view.ParseSortMode(args[2].String())
	}

	return promise(func() (any, error) {
		fs, err := indexeddb.NewFS(context.Background(), DraftDB, indexeddb.Options{})
		if err != nil {
			return nil, err
		}
		if unsubscribe != nil {
			unsubscribe()
			unsubscribe = nil
		}
		if onEvent.Truthy() {
			// Handlers run on the session's goroutine with no session lock
			// held, so they may call the read-only exports directly.
			unsubscribe = bus.Subscribe(func(ev events.Event) {
				onEvent.Invoke(string(ev.Kind), ev.Pending)
			})
		}
		s := session.New(session.Config{
			Remote:   remote,
			Drafts:   draft.NewManager(fs, draft.Options{Notifier: bus, Logger: logger}),
			Notifier: bus,
			Logger:   logger,
			Sort:     sort,
		})
		if err := s.Load(context.Background()); err != nil {
			return nil, err
		}
		sess = s
		return map[string]any{"pending": s.HasChanges()}, nil
	})
}

// withSession returns the loaded session or an error result.
func withSession(fn func(s *session.Session) interface{}) interface{} {
	if sess == nil {
		return errorResult(errNoSession.Error())
	}
	return fn(sess)
}

// mutate runs fn off the event loop, since draft writes reach IndexedDB.
func mutate(fn func(s *session.Session) (any, error)) interface{} {
	if sess == nil {
		return errorResult(errNoSession.Error())
	}
	s := sess
	return promise(func() (any, error) { return fn(s) })
}

// =============================================================================
// View
// =============================================================================

// getView returns the filtered entries, stats and facets.
func getView(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		res := s.View()
		return jsonResult(map[string]any{
			"entries": res.Entries,
			"stats":   res.Stats,
			"facets":  s.Facets(),
			"colors":  s.ColorMap(),
		})
	})
}

// setSearch: [term string]
func setSearch(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		s.SetSearch(argString(args, 0))
		return successResult("ok")
	})
}

// toggleTag: [name string]
func toggleTag(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		return jsonResult(map[string]any{"selected": s.ToggleTag(argString(args, 0))})
	})
}

func clearFilters(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		s.ClearFilters()
		return successResult("ok")
	})
}

// setSort: [mode string]
func setSort(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		s.SetSort(view.ParseSortMode(argString(args, 0)))
		return successResult("ok")
	})
}

// =============================================================================
// Entries
// =============================================================================

func nextNumber(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		return s.NextNumber()
	})
}

// addEntry: [entryJSON string]
func addEntry(this js.Value, args []js.Value) interface{} {
	var e lore.Entry
	if err := json.Unmarshal([]byte(argString(args, 0)), &e); err != nil {
		return errorResult("entry json: " + err.Error())
	}
	return mutate(func(s *session.Session) (any, error) {
		created, err := s.AddEntry(e)
		return map[string]any{"createdTags": created}, err
	})
}

// updateEntry: [number string, entryJSON string]
func updateEntry(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: number, entryJSON")
	}
	var e lore.Entry
	if err := json.Unmarshal([]byte(args[1].String()), &e); err != nil {
		return errorResult("entry json: " + err.Error())
	}
	number := args[0].String()
	return mutate(func(s *session.Session) (any, error) {
		created, err := s.UpdateEntry(number, e)
		return map[string]any{"createdTags": created}, err
	})
}

// deleteEntry: [number string]
func deleteEntry(this js.Value, args []js.Value) interface{} {
	number := argString(args, 0)
	return mutate(func(s *session.Session) (any, error) {
		return map[string]any{"deleted": number}, s.DeleteEntry(number)
	})
}

// suggest: [text string, currentTags string]
func suggest(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		return jsonResult(s.Suggest(argString(args, 0), lore.ParseTagRefs(argString(args, 1))))
	})
}

// =============================================================================
// Tags and arcs
// =============================================================================

// listTags: [search string (optional)]
func listTags(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		return jsonResult(s.SearchTags(argString(args, 0)))
	})
}

// autocomplete: [typed string, excludeJSON string, limit int]
func autocomplete(this js.Value, args []js.Value) interface{} {
	var exclude []string
	if raw := argString(args, 1); raw != "" {
		if err := json.Unmarshal([]byte(raw), &exclude); err != nil {
			return errorResult("exclude json: " + err.Error())
		}
	}
	limit := 8
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		limit = args[2].Int()
	}
	return withSession(func(s *session.Session) interface{} {
		return jsonResult(s.Autocomplete(argString(args, 0), exclude, limit))
	})
}

// addTag: [name string, color string, termsJSON string (optional)]
func addTag(this js.Value, args []js.Value) interface{} {
	var terms []string
	if raw := argString(args, 2); raw != "" {
		if err := json.Unmarshal([]byte(raw), &terms); err != nil {
			return errorResult("terms json: " + err.Error())
		}
	}
	name, color := argString(args, 0), lore.Color(argString(args, 1))
	return mutate(func(s *session.Session) (any, error) {
		return s.AddTag(name, color, terms)
	})
}

type tagPatch struct {
	Name  *string     `json:"name"`
	Color *lore.Color `json:"color"`
	Terms []string    `json:"terms"`
}

// updateTag: [id string, patchJSON string]
func updateTag(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: id, patchJSON")
	}
	var p tagPatch
	if err := json.Unmarshal([]byte(args[1].String()), &p); err != nil {
		return errorResult("patch json: " + err.Error())
	}
	id := args[0].String()
	return mutate(func(s *session.Session) (any, error) {
		return s.UpdateTag(id, catalog.TagUpdate{Name: p.Name, Color: p.Color, Terms: p.Terms})
	})
}

// deleteTag: [id string]
func deleteTag(this js.Value, args []js.Value) interface{} {
	id := argString(args, 0)
	return mutate(func(s *session.Session) (any, error) {
		return map[string]any{"deleted": id}, s.DeleteTag(id)
	})
}

func syncTags(this js.Value, args []js.Value) interface{} {
	return mutate(func(s *session.Session) (any, error) {
		return map[string]any{"createdTags": s.SyncTags()}, nil
	})
}

// setArc: [key string, name string, color string]
func setArc(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorResult("requires 3 args: key, name, color")
	}
	key, name, color := args[0].String(), args[1].String(), lore.Color(args[2].String())
	return mutate(func(s *session.Session) (any, error) {
		s.SetArcName(key, name)
		return s.SetArcColor(key, color), nil
	})
}

// =============================================================================
// Sync
// =============================================================================

// diff returns the reviewable changes, all selected.
func diff(this js.Value, args []js.Value) interface{} {
	return withSession(func(s *session.Session) interface{} {
		return jsonResult(s.Review().Changes())
	})
}

// publish: [excludeJSON string (optional)] - change ids to leave out.
func publish(this js.Value, args []js.Value) interface{} {
	var exclude []string
	if raw := argString(args, 0); raw != "" {
		if err := json.Unmarshal([]byte(raw), &exclude); err != nil {
			return errorResult("exclude json: " + err.Error())
		}
	}
	return mutate(func(s *session.Session) (any, error) {
		r := s.Review()
		for _, id := range exclude {
			if err := r.Set(id, false); err != nil {
				return nil, err
			}
		}
		res, err := s.Publish(context.Background(), r)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"published":    res.Published,
			"remaining":    res.Remaining,
			"draftCleared": res.DraftCleared,
		}, nil
	})
}

func discard(this js.Value, args []js.Value) interface{} {
	return mutate(func(s *session.Session) (any, error) {
		return map[string]any{"discarded": true}, s.Discard()
	})
}

// =============================================================================
// Helpers
// =============================================================================

func argString(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

// Helper: Marshal a value as the JSON string returned to JS
func jsonResult(v any) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(jsonBytes)
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
