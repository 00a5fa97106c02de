package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CheckState is the tri-state value of a checkbox node.
type CheckState int

const (
	Unchecked CheckState = 0
	Checked   CheckState = 1
	Partial   CheckState = 2
)

var ErrInvalidCheckState = errors.New("invalid check state")

// ParseCheckState converts the integer wire form (0|1|2) into a CheckState.
func ParseCheckState(v int) (CheckState, error) {
	s := CheckState(v)
	if !s.Valid() {
		return Unchecked, fmt.Errorf("%w: %d", ErrInvalidCheckState, v)
	}
	return s, nil
}

// UnmarshalJSON accepts only the integer wire form.
func (s *CheckState) UnmarshalJSON(b []byte) error {
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCheckState, b)
	}
	parsed, err := ParseCheckState(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s CheckState) Valid() bool {
	switch s {
	case Unchecked, Checked, Partial:
		return true
	default:
		return false
	}
}

func (s CheckState) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checked:
		return "checked"
	case Partial:
		return "partial"
	default:
		return fmt.Sprintf("CheckState(%d)", int(s))
	}
}

// PartialToggle decides what toggling a partially-checked node means.
// A partial box has no natural next state, so this is caller policy.
type PartialToggle int

const (
	// PartialToggleClear resolves partial -> unchecked (optimisticToggle=false).
	PartialToggleClear PartialToggle = iota
	// PartialToggleComplete resolves partial -> checked (optimisticToggle=true).
	PartialToggleComplete
)

func OptimisticToggle(optimistic bool) PartialToggle {
	if optimistic {
		return PartialToggleComplete
	}
	return PartialToggleClear
}

func (p PartialToggle) Optimistic() bool {
	return p == PartialToggleComplete
}

func (p PartialToggle) String() string {
	if p == PartialToggleComplete {
		return "complete"
	}
	return "clear"
}
