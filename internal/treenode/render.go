package treenode

import (
	"checktree/internal/vdom"
)

func iconSpan(class string) *vdom.Elem {
	return vdom.H("span", map[string]any{"className": vdom.Classes("rct-icon", class)})
}

// Render builds the node's DOM:
//
//	li.rct-node
//	  span.rct-text
//	    (button.rct-collapse | span.rct-collapse)
//	    label[for]
//	      input[type=checkbox]
//	      span.rct-checkbox
//	      span.rct-node-icon
//	      span.rct-title
//	  children (only when expanded)
func Render(p Props) *vdom.Elem {
	v := Derive(p)

	var children any
	if v.ShowChildren {
		children = p.Children
	}

	return vdom.H("li", map[string]any{"className": v.NodeClass},
		vdom.H("span", map[string]any{"className": "rct-text"},
			renderCollapse(p, v),
			vdom.H("label", map[string]any{"htmlFor": v.InputID},
				vdom.H("input", map[string]any{
					"checked":  v.InputChecked,
					"id":       v.InputID,
					"type":     "checkbox",
					"onChange": vdom.EventFn(func(vdom.Event) { p.ToggleCheck() }),
				}),
				vdom.H("span", map[string]any{"className": "rct-checkbox"}, iconSpan(v.CheckboxIcon)),
				vdom.H("span", map[string]any{"className": "rct-node-icon"}, renderNodeIcon(v)),
				vdom.H("span", map[string]any{"className": "rct-title"}, v.Label),
			),
		),
		children,
	).WithKey(p.Value)
}

func renderCollapse(p Props, v View) *vdom.Elem {
	if !v.Collapsible {
		return vdom.H("span", map[string]any{"className": "rct-collapse"},
			vdom.H("span", map[string]any{"className": "rct-icon"}),
		)
	}
	return vdom.H("button", map[string]any{
		"aria-label": "Toggle",
		"className":  "rct-collapse rct-collapse-btn",
		"title":      "Toggle",
		"type":       "button",
		"onClick":    vdom.EventFn(func(vdom.Event) { p.ToggleExpand() }),
	}, iconSpan(v.CollapseIcon))
}

func renderNodeIcon(v View) *vdom.Elem {
	if v.IconOverride != nil {
		return v.IconOverride
	}
	return iconSpan(v.NodeIcon)
}
