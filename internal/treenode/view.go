package treenode

import (
	"checktree/internal/model"
	"checktree/internal/vdom"
)

// Icon class names that downstream styling depends on verbatim.
const (
	IconExpandClose = "rct-icon-expand-close"
	IconExpandOpen  = "rct-icon-expand-open"
	IconUncheck     = "rct-icon-uncheck"
	IconCheck       = "rct-icon-check"
	IconHalfCheck   = "rct-icon-half-check"
	IconLeaf        = "rct-icon-leaf"
	IconParentClose = "rct-icon-parent-close"
	IconParentOpen  = "rct-icon-parent-open"

	ClassNode   = "rct-node"
	ClassParent = "rct-node-parent"
	ClassLeaf   = "rct-node-leaf"
)

// View is every rendering decision for one node, independent of the surface
// drawing it.
type View struct {
	NodeClass string
	InputID   string
	Label     string

	// Collapsible is false for leaves, which get an inert placeholder.
	Collapsible  bool
	CollapseIcon string

	CheckboxIcon string
	InputChecked bool

	// NodeIcon is empty when IconOverride is set.
	NodeIcon     string
	IconOverride *vdom.Elem

	ShowChildren bool
}

// Derive computes the View for p. Render and the terminal rows both draw
// from it.
func Derive(p Props) View {
	parent := p.HasChildren()
	v := View{
		NodeClass: vdom.Classes(ClassNode, map[string]bool{
			ClassParent: parent,
			ClassLeaf:   !parent,
		}),
		InputID:      InputID(p.TreeID, p.Value),
		Label:        p.Label,
		Collapsible:  parent,
		CheckboxIcon: checkboxIcon(p.Checked),
		InputChecked: p.Checked == model.Checked,
		ShowChildren: p.Expanded,
	}
	if parent {
		v.CollapseIcon = IconExpandClose
		if p.Expanded {
			v.CollapseIcon = IconExpandOpen
		}
	}
	if p.Icon != nil {
		v.IconOverride = p.Icon
		return v
	}
	v.NodeIcon = nodeIcon(parent, p.Expanded)
	return v
}

// checkboxIcon falls through to the half-check glyph for anything that is
// not exactly Unchecked or Checked.
func checkboxIcon(s model.CheckState) string {
	switch s {
	case model.Unchecked:
		return IconUncheck
	case model.Checked:
		return IconCheck
	default:
		return IconHalfCheck
	}
}

func nodeIcon(parent, expanded bool) string {
	switch {
	case !parent:
		return IconLeaf
	case !expanded:
		return IconParentClose
	default:
		return IconParentOpen
	}
}
