// Package tree owns the state of a checkbox tree and composes one treenode
// per entry. It is the host side of the node's intents: it applies
// CheckEvent/ExpandEvent and re-renders with fresh props.
package tree

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"checktree/internal/model"
)

var (
	ErrUnknownValue   = errors.New("unknown node value")
	ErrDuplicateValue = errors.New("duplicate node value")
	ErrInvalidValue   = errors.New("invalid node value")
)

// State is the persisted part of a tree: checked leaf values and expanded
// node values, both sorted.
type State struct {
	Checked  []string `json:"checked"`
	Expanded []string `json:"expanded"`
}

// Change reports an intent after the controller applied it.
type Change struct {
	Check  *model.CheckEvent
	Expand *model.ExpandEvent
	Err    error
}

type Option func(*Controller)

func WithToggle(t model.PartialToggle) Option {
	return func(c *Controller) { c.toggle = t }
}

// WithChangeHook is called after every intent routed through node props.
func WithChangeHook(fn func(Change)) Option {
	return func(c *Controller) { c.hook = fn }
}

type Controller struct {
	def    model.TreeDef
	toggle model.PartialToggle
	hook   func(Change)

	index    map[string]model.Descriptor
	parentOf map[string]string
	checked  map[string]bool
	expanded map[string]bool
}

func New(def model.TreeDef, st State, opts ...Option) (*Controller, error) {
	c := &Controller{
		def:      def,
		toggle:   model.OptimisticToggle(def.OptimisticToggle != nil && *def.OptimisticToggle),
		index:    map[string]model.Descriptor{},
		parentOf: map[string]string{},
		checked:  map[string]bool{},
		expanded: map[string]bool{},
	}
	for _, o := range opts {
		o(c)
	}

	var dupErr error
	var add func(ds []model.Descriptor, parent string)
	add = func(ds []model.Descriptor, parent string) {
		for _, d := range ds {
			v := d.Value
			if strings.TrimSpace(v) == "" {
				dupErr = errors.Join(dupErr, fmt.Errorf("%w: empty (label %q)", ErrInvalidValue, d.Label))
				continue
			}
			// Values are event payloads and storage keys; they must round-trip as-is.
			if strings.TrimSpace(v) != v {
				dupErr = errors.Join(dupErr, fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidValue, v))
				continue
			}
			if _, ok := c.index[v]; ok {
				dupErr = errors.Join(dupErr, fmt.Errorf("%w: %s", ErrDuplicateValue, v))
				continue
			}
			c.index[v] = d
			if parent != "" {
				c.parentOf[v] = parent
			}
			add(d.Children, v)
		}
	}
	add(def.Nodes, "")
	if dupErr != nil {
		return nil, dupErr
	}

	// Stale values (nodes removed from the definition) are dropped silently.
	for _, v := range st.Checked {
		if d, ok := c.index[v]; ok && len(d.Children) == 0 {
			c.checked[v] = true
		}
	}
	for _, v := range st.Expanded {
		if d, ok := c.index[v]; ok && d.IsParent() {
			c.expanded[v] = true
		}
	}
	return c, nil
}

func (c *Controller) TreeID() string              { return c.def.ID }
func (c *Controller) Def() model.TreeDef          { return c.def }
func (c *Controller) Toggle() model.PartialToggle { return c.toggle }

func (c *Controller) Lookup(value string) (model.Descriptor, bool) {
	d, ok := c.index[value]
	return d, ok
}

// Parent returns the value of the node's parent, or "" for roots.
func (c *Controller) Parent(value string) string {
	return c.parentOf[value]
}

func (c *Controller) State() State {
	return State{Checked: sortedKeys(c.checked), Expanded: sortedKeys(c.expanded)}
}

func (c *Controller) IsExpanded(value string) bool {
	return c.expanded[value]
}

// CheckState derives a node's tri-state value. Nodes without children
// (leaves and empty parents) are checked or unchecked by themselves; other
// parents are Checked when every child is, Unchecked when none is, and
// Partial otherwise.
func (c *Controller) CheckState(value string) model.CheckState {
	d, ok := c.index[value]
	if !ok {
		return model.Unchecked
	}
	return c.stateOf(d, nil)
}

func (c *Controller) stateOf(d model.Descriptor, memo map[string]model.CheckState) model.CheckState {
	if memo != nil {
		if s, ok := memo[d.Value]; ok {
			return s
		}
	}
	var s model.CheckState
	if len(d.Children) == 0 {
		s = model.Unchecked
		if c.checked[d.Value] {
			s = model.Checked
		}
	} else {
		nChecked, nUnchecked := 0, 0
		for _, ch := range d.Children {
			switch c.stateOf(ch, memo) {
			case model.Checked:
				nChecked++
			case model.Unchecked:
				nUnchecked++
			}
		}
		switch {
		case nChecked == len(d.Children):
			s = model.Checked
		case nUnchecked == len(d.Children):
			s = model.Unchecked
		default:
			s = model.Partial
		}
	}
	if memo != nil {
		memo[d.Value] = s
	}
	return s
}

func (c *Controller) states() map[string]model.CheckState {
	memo := make(map[string]model.CheckState, len(c.index))
	for _, d := range c.def.Nodes {
		c.stateOf(d, memo)
	}
	return memo
}

// OnCheck applies a check intent, cascading ev.Checked onto every leaf of
// the subtree described by ev.Children.
func (c *Controller) OnCheck(ev model.CheckEvent) error {
	if _, ok := c.index[ev.Value]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownValue, ev.Value)
	}
	if len(ev.Children) == 0 {
		c.setChecked(ev.Value, ev.Checked)
		return nil
	}
	var cascade func(ds []model.Descriptor)
	cascade = func(ds []model.Descriptor) {
		for _, ch := range ds {
			// Payload descriptors may be minimal; prefer the indexed subtree.
			full, ok := c.index[ch.Value]
			if !ok {
				full = ch
			}
			if len(full.Children) == 0 {
				c.setChecked(full.Value, ev.Checked)
				continue
			}
			cascade(full.Children)
		}
	}
	cascade(ev.Children)
	return nil
}

func (c *Controller) setChecked(value string, on bool) {
	if on {
		c.checked[value] = true
		return
	}
	delete(c.checked, value)
}

func (c *Controller) OnExpand(ev model.ExpandEvent) error {
	d, ok := c.index[ev.Value]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownValue, ev.Value)
	}
	if !d.IsParent() {
		return nil
	}
	if ev.Expanded {
		c.expanded[ev.Value] = true
	} else {
		delete(c.expanded, ev.Value)
	}
	return nil
}

func (c *Controller) ExpandAll() {
	for v, d := range c.index {
		if d.IsParent() {
			c.expanded[v] = true
		}
	}
}

func (c *Controller) CollapseAll() {
	c.expanded = map[string]bool{}
}

func (c *Controller) handleCheck(ev model.CheckEvent) {
	err := c.OnCheck(ev)
	if c.hook != nil {
		c.hook(Change{Check: &ev, Err: err})
	}
}

func (c *Controller) handleExpand(ev model.ExpandEvent) {
	err := c.OnExpand(ev)
	if c.hook != nil {
		c.hook(Change{Expand: &ev, Err: err})
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
