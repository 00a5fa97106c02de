// Package treenode renders one node of a checkbox tree.
//
// A node is a pure function of its Props: it never stores checked or
// expanded state. User gestures become CheckEvent/ExpandEvent intents passed
// to the owner, which re-renders the node with new props.
package treenode

import (
	"checktree/internal/model"
	"checktree/internal/vdom"
)

// Props is everything a node renders from. Checked and Expanded are owned by
// the caller; the node only reports intents through OnCheck and OnExpand.
type Props struct {
	TreeID   string
	Value    string
	Label    string
	Checked  model.CheckState
	Expanded bool
	Toggle   model.PartialToggle

	// RawChildren is nil for leaves. Any non-nil slice, empty included,
	// makes the node a parent.
	RawChildren []model.Descriptor

	// Children holds already-rendered child nodes. Only their visibility is
	// decided here; they need not match RawChildren.
	Children []*vdom.Elem

	// Icon replaces the computed leaf/parent icon when set.
	Icon *vdom.Elem

	OnCheck  func(model.CheckEvent)
	OnExpand func(model.ExpandEvent)
}

// HasChildren reports whether the node is a parent. An empty RawChildren
// slice still counts.
func (p Props) HasChildren() bool {
	return p.RawChildren != nil
}

// InputID is the checkbox id the label's "for" points at.
func InputID(treeID, value string) string {
	return treeID + "-" + value
}

// NextChecked resolves the checked boolean a toggle gesture asks for.
func NextChecked(current model.CheckState, toggle model.PartialToggle) bool {
	switch current {
	case model.Unchecked:
		return true
	case model.Partial:
		return toggle.Optimistic()
	default:
		return false
	}
}

// ToggleCheck emits the check intent for the node's current props.
func (p Props) ToggleCheck() {
	p.OnCheck(model.CheckEvent{
		Value:    p.Value,
		Checked:  NextChecked(p.Checked, p.Toggle),
		Children: p.RawChildren,
	})
}

// ToggleExpand emits the expand intent for the node's current props.
func (p Props) ToggleExpand() {
	p.OnExpand(model.ExpandEvent{
		Value:    p.Value,
		Expanded: !p.Expanded,
	})
}
