package vdom

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrNoHandler = errors.New("no handler")

// Frame holds the handlers of one rendered tree, addressed by handler id.
//
// Ids are derived from the nearest keyed ancestor plus child indexes, so a
// re-render of the same keyed structure yields the same ids.
type Frame struct {
	Root     *Elem
	handlers map[string]EventFn
}

func Mount(root *Elem) *Frame {
	f := &Frame{Root: root, handlers: map[string]EventFn{}}
	Walk(root, func(e *Elem, path string) {
		for k, v := range e.Props {
			if fn, ok := handlerOf(v); ok {
				f.handlers[HandlerID(path, k)] = fn
			}
		}
	})
	return f
}

func (f *Frame) Dispatch(id string, ev Event) error {
	if f == nil {
		return fmt.Errorf("%w: %s", ErrNoHandler, id)
	}
	fn, ok := f.handlers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, id)
	}
	if ev.Type == "" {
		_, ev.Type = splitHandlerID(id)
	}
	fn(ev)
	return nil
}

// HandlerIDs returns the mounted ids, sorted.
func (f *Frame) HandlerIDs() []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.handlers))
	for id := range f.handlers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// HandlerFor finds the id of the handler prop on the first element matching pred.
func (f *Frame) HandlerFor(pred func(*Elem) bool, prop string) (string, bool) {
	if f == nil {
		return "", false
	}
	var id string
	found := false
	Walk(f.Root, func(e *Elem, path string) {
		if found || !pred(e) {
			return
		}
		if _, ok := handlerOf(e.Props[prop]); ok {
			id = HandlerID(path, prop)
			found = true
		}
	})
	return id, found
}

func HandlerID(path, prop string) string {
	return path + ":" + prop
}

func splitHandlerID(id string) (path, prop string) {
	i := strings.LastIndex(id, ":")
	if i < 0 {
		return id, ""
	}
	return id[:i], id[i+1:]
}

// Walk visits elements (text nodes excluded) with their handler path.
func Walk(root *Elem, fn func(e *Elem, path string)) {
	if root == nil {
		return
	}
	walkElem(root, elemPath("", 0, root), fn)
}

func walkElem(e *Elem, path string, fn func(*Elem, string)) {
	if e.IsText() {
		return
	}
	fn(e, path)
	for i := range e.Children {
		c := &e.Children[i]
		walkElem(c, elemPath(path, i, c), fn)
	}
}

func elemPath(parent string, idx int, e *Elem) string {
	if k := e.Key(); k != "" {
		return "@" + k
	}
	if parent == "" {
		return strconv.Itoa(idx)
	}
	return parent + "." + strconv.Itoa(idx)
}
