package vdom

import (
	"fmt"
	"strings"
)

func ByClass(class string) func(*Elem) bool {
	return func(e *Elem) bool { return HasClass(e, class) }
}

func ByTag(tag string) func(*Elem) bool {
	return func(e *Elem) bool { return e.Tag == tag }
}

func ByProp(name string, val any) func(*Elem) bool {
	return func(e *Elem) bool {
		v, ok := e.Props[name]
		if !ok {
			return false
		}
		if _, isFn := handlerOf(v); isFn {
			return false
		}
		return v == val
	}
}

func HasClass(e *Elem, class string) bool {
	if e == nil {
		return false
	}
	cl, _ := e.Props["className"].(string)
	for _, c := range strings.Fields(cl) {
		if c == class {
			return true
		}
	}
	return false
}

func Find(root *Elem, pred func(*Elem) bool) *Elem {
	var found *Elem
	Walk(root, func(e *Elem, _ string) {
		if found == nil && pred(e) {
			found = e
		}
	})
	return found
}

func FindAll(root *Elem, pred func(*Elem) bool) []*Elem {
	var out []*Elem
	Walk(root, func(e *Elem, _ string) {
		if pred(e) {
			out = append(out, e)
		}
	})
	return out
}

// Contains reports whether want appears as a subtree of root. Handler props
// and keys are ignored; all other props, text, and children must match.
func Contains(root *Elem, want Elem) bool {
	found := false
	Walk(root, func(e *Elem, _ string) {
		if !found && Equal(*e, want) {
			found = true
		}
	})
	return found
}

func Equal(a, b Elem) bool {
	if a.Tag != b.Tag || a.Text != b.Text || len(a.Children) != len(b.Children) {
		return false
	}
	if !sameProps(a.Props, b.Props) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func sameProps(a, b map[string]any) bool {
	pa, pb := plainProps(a), plainProps(b)
	if len(pa) != len(pb) {
		return false
	}
	for k, v := range pa {
		if w, ok := pb[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func plainProps(m map[string]any) map[string]string {
	out := map[string]string{}
	for k, v := range m {
		if k == KeyPropKey || v == nil {
			continue
		}
		if _, ok := handlerOf(v); ok {
			continue
		}
		out[k] = fmt.Sprintf("%T:%v", v, v)
	}
	return out
}

// TextContent concatenates all text beneath e.
func TextContent(e *Elem) string {
	if e == nil {
		return ""
	}
	if e.IsText() {
		return e.Text
	}
	var b strings.Builder
	for i := range e.Children {
		b.WriteString(TextContent(&e.Children[i]))
	}
	return b.String()
}
