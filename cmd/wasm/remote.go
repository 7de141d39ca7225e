//go:build js && wasm

package main

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/kittclouds/loredump/internal/store"
	"github.com/kittclouds/loredump/pkg/lore"
)

// jsRemote adapts a page-provided object to store.DocumentStore.
//
// The object must expose loadDocument() and saveDocument(json). Both
// return a Promise; loadDocument resolves to a JSON string, or to null
// or an empty string when nothing was published yet, and saveDocument
// resolves to the JSON of what was stored.
type jsRemote struct {
	obj js.Value
}

var _ store.DocumentStore = (*jsRemote)(nil)

func newJSRemote(obj js.Value) (*jsRemote, error) {
	for _, m := range []string{"loadDocument", "saveDocument"} {
		if obj.Get(m).Type() != js.TypeFunction {
			return nil, fmt.Errorf("remote is missing %s()", m)
		}
	}
	return &jsRemote{obj: obj}, nil
}

func (r *jsRemote) LoadDocument(ctx context.Context) (*lore.Document, error) {
	v, err := await(ctx, r.obj.Call("loadDocument"))
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if v.IsNull() || v.IsUndefined() || (v.Type() == js.TypeString && v.String() == "") {
		return nil, nil
	}
	doc, err := store.FromJSON[lore.Document]([]byte(v.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

func (r *jsRemote) SaveDocument(ctx context.Context, doc lore.Document) (lore.Document, error) {
	body, err := store.ToJSON(doc)
	if err != nil {
		return lore.Document{}, err
	}
	v, err := await(ctx, r.obj.Call("saveDocument", string(body)))
	if err != nil {
		return lore.Document{}, fmt.Errorf("failed to save document: %w", err)
	}
	if v.Type() != js.TypeString || v.String() == "" {
		return doc, nil
	}
	echoed, err := store.FromJSON[lore.Document]([]byte(v.String()))
	if err != nil {
		return lore.Document{}, fmt.Errorf("failed to decode saved document: %w", err)
	}
	return *echoed, nil
}

func (r *jsRemote) Close() error {
	return nil
}

// await blocks the calling goroutine until p settles. It must not run on
// the event loop goroutine, so exported functions that reach the remote
// hand their work to promise().
func await(ctx context.Context, p js.Value) (js.Value, error) {
	if p.Type() != js.TypeObject || p.Get("then").Type() != js.TypeFunction {
		return p, nil
	}

	type settled struct {
		v   js.Value
		err error
	}
	ch := make(chan settled, 1)

	onOK := js.FuncOf(func(this js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		ch <- settled{v: v}
		return nil
	})
	onErr := js.FuncOf(func(this js.Value, args []js.Value) any {
		reason := js.Undefined()
		if len(args) > 0 {
			reason = args[0]
		}
		ch <- settled{err: errors.New(rejectionMessage(reason))}
		return nil
	})
	defer onOK.Release()
	defer onErr.Release()

	p.Call("then", onOK, onErr)

	select {
	case s := <-ch:
		return s.v, s.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}

// rejectionMessage describes a rejection reason. Pages reject with Error
// objects, plain strings or nothing at all.
func rejectionMessage(reason js.Value) string {
	switch reason.Type() {
	case js.TypeUndefined, js.TypeNull:
		return "promise rejected"
	case js.TypeObject:
		if m := reason.Get("message"); m.Type() == js.TypeString && m.String() != "" {
			return m.String()
		}
		return reason.Call("toString").String()
	case js.TypeString:
		return reason.String()
	default:
		return js.Global().Get("String").Invoke(reason).String()
	}
}

// promise runs fn on its own goroutine and settles a JS Promise with its
// JSON result.
func promise(fn func() (any, error)) any {
	executor := js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go func() {
			v, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(jsonResult(v))
		}()
		return nil
	})
	p := js.Global().Get("Promise").New(executor)
	executor.Release()
	return p
}
