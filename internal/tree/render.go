package tree

import (
	"checktree/internal/model"
	"checktree/internal/treenode"
	"checktree/internal/vdom"
)

// NodeProps builds the props the controller would pass to the node for value.
func (c *Controller) NodeProps(value string) (treenode.Props, bool) {
	d, ok := c.index[value]
	if !ok {
		return treenode.Props{}, false
	}
	return c.props(d, c.states()), true
}

func (c *Controller) props(d model.Descriptor, states map[string]model.CheckState) treenode.Props {
	return treenode.Props{
		TreeID:      c.def.ID,
		Value:       d.Value,
		Label:       d.Label,
		Checked:     states[d.Value],
		Expanded:    c.expanded[d.Value],
		Toggle:      c.toggle,
		RawChildren: d.Children,
		Icon:        iconElem(d.Icon),
		OnCheck:     c.handleCheck,
		OnExpand:    c.handleExpand,
	}
}

func iconElem(ic *model.Icon) *vdom.Elem {
	if ic == nil {
		return nil
	}
	var text any
	if ic.Text != "" {
		text = ic.Text
	}
	return vdom.H("span", map[string]any{"className": ic.Class}, text)
}

// Render composes the whole tree. Children of expanded parents are rendered
// first and handed to the parent's node as its children slot; collapsed
// subtrees are not rendered at all.
func (c *Controller) Render() *vdom.Elem {
	states := c.states()
	return vdom.H("div", map[string]any{"className": "react-checkbox-tree"},
		c.renderList(c.def.Nodes, states),
	)
}

func (c *Controller) renderList(nodes []model.Descriptor, states map[string]model.CheckState) *vdom.Elem {
	items := make([]*vdom.Elem, 0, len(nodes))
	for _, d := range nodes {
		p := c.props(d, states)
		if p.Expanded && len(d.Children) > 0 {
			p.Children = []*vdom.Elem{c.renderList(d.Children, states)}
		}
		items = append(items, treenode.Render(p))
	}
	return vdom.H("ol", nil, items)
}

// Row is one visible node in depth-first order.
type Row struct {
	Props treenode.Props
	Depth int
}

// Rows flattens the visible part of the tree for line-oriented surfaces.
func (c *Controller) Rows() []Row {
	states := c.states()
	var out []Row
	var walk func(ds []model.Descriptor, depth int)
	walk = func(ds []model.Descriptor, depth int) {
		for _, d := range ds {
			p := c.props(d, states)
			out = append(out, Row{Props: p, Depth: depth})
			if p.Expanded {
				walk(d.Children, depth+1)
			}
		}
	}
	walk(c.def.Nodes, 0)
	return out
}
