package model

// Icon overrides the computed leaf/parent icon of a node.
// Class feeds the HTML surface; Text is what text surfaces print.
type Icon struct {
	Class string `json:"class,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Descriptor is the caller-owned, unrendered description of one tree entry.
//
// Children == nil marks a leaf. A non-nil, empty Children slice is still a
// parent (it renders a collapse button and parent icons); JSON keeps the
// distinction as `null` vs `[]`.
type Descriptor struct {
	Value    string       `json:"value"`
	Label    string       `json:"label"`
	Children []Descriptor `json:"children"`
	Icon     *Icon        `json:"icon,omitempty"`
}

func (d Descriptor) IsParent() bool {
	return d.Children != nil
}

// TreeDef is a persisted tree definition.
type TreeDef struct {
	ID    string       `json:"id"`
	Label string       `json:"label,omitempty"`
	Nodes []Descriptor `json:"nodes"`

	// OptimisticToggle overrides the global partial-toggle policy for this tree.
	OptimisticToggle *bool `json:"optimisticToggle,omitempty"`
}

// Walk visits every descriptor depth-first, parents before children.
func Walk(nodes []Descriptor, fn func(d Descriptor, depth int) bool) {
	var walk func(ds []Descriptor, depth int) bool
	walk = func(ds []Descriptor, depth int) bool {
		for _, d := range ds {
			if !fn(d, depth) {
				return false
			}
			if !walk(d.Children, depth+1) {
				return false
			}
		}
		return true
	}
	walk(nodes, 0)
}
