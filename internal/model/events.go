package model

// CheckEvent is emitted when a node's checkbox is toggled.
//
// Children forwards the node's raw child descriptors so the receiver can
// cascade Checked onto the whole subtree. It is nil for leaves.
type CheckEvent struct {
	Value    string       `json:"value"`
	Checked  bool         `json:"checked"`
	Children []Descriptor `json:"children"`
}

// ExpandEvent is emitted when a node's collapse button is clicked.
type ExpandEvent struct {
	Value    string `json:"value"`
	Expanded bool   `json:"expanded"`
}
