// Package vdom is a small virtual-DOM: elements with props and children,
// handler props addressed by stable ids, and HTML serialization.
package vdom

import (
	"fmt"
	"sort"
	"strings"
)

const TextTag = "#text"

const KeyPropKey = "key"

type Elem struct {
	Tag      string
	Props    map[string]any
	Children []Elem
	Text     string
}

// Event is the payload handed to handler props (onChange, onClick, ...).
type Event struct {
	Type          string `json:"type"`
	TargetID      string `json:"targetId,omitempty"`
	TargetChecked bool   `json:"targetChecked,omitempty"`
	TargetValue   string `json:"targetValue,omitempty"`
}

type EventFn func(Event)

func TextElem(text string) Elem {
	return Elem{Tag: TextTag, Text: text}
}

func (e Elem) IsText() bool { return e.Tag == TextTag }

func (e *Elem) Key() string {
	if e == nil {
		return ""
	}
	k, _ := e.Props[KeyPropKey].(string)
	return k
}

func (e *Elem) WithKey(key string) *Elem {
	if e == nil {
		return nil
	}
	if e.Props == nil {
		e.Props = map[string]any{}
	}
	e.Props[KeyPropKey] = key
	return e
}

// H builds an element. Children may be strings, Elem, *Elem, slices of
// those, or nil (dropped).
func H(tag string, props map[string]any, children ...any) *Elem {
	e := &Elem{Tag: tag, Props: props}
	for _, c := range children {
		e.Children = append(e.Children, PartToElems(c)...)
	}
	return e
}

func If(cond bool, part any) any {
	if cond {
		return part
	}
	return nil
}

func PartToElems(part any) []Elem {
	switch p := part.(type) {
	case nil:
		return nil
	case string:
		return []Elem{TextElem(p)}
	case Elem:
		return []Elem{p}
	case *Elem:
		if p == nil {
			return nil
		}
		return []Elem{*p}
	case []Elem:
		return p
	case []*Elem:
		var out []Elem
		for _, c := range p {
			out = append(out, PartToElems(c)...)
		}
		return out
	case []any:
		var out []Elem
		for _, c := range p {
			out = append(out, PartToElems(c)...)
		}
		return out
	default:
		return []Elem{TextElem(fmt.Sprint(p))}
	}
}

// Classes joins class names. Strings are taken as-is; map[string]bool entries
// are included when true, in sorted order.
func Classes(parts ...any) string {
	var out []string
	for _, part := range parts {
		switch c := part.(type) {
		case string:
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		case []string:
			out = append(out, Classes(toAny(c)...))
		case map[string]bool:
			keys := make([]string, 0, len(c))
			for k, on := range c {
				if on && strings.TrimSpace(k) != "" {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			out = append(out, keys...)
		}
	}
	return strings.Join(out, " ")
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func handlerOf(v any) (EventFn, bool) {
	switch fn := v.(type) {
	case EventFn:
		return fn, fn != nil
	case func(Event):
		return fn, fn != nil
	default:
		return nil, false
	}
}
