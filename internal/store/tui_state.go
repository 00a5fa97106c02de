package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const tuiStateFileName = "tui_state.json"

// TUIState is best-effort UI state restored on relaunch; callers tolerate
// missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// Cursors maps a tree id to the node value that was selected.
	Cursors map[string]string `json:"cursors,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() *TUIState {
	empty := &TUIState{Version: 1, Cursors: map[string]string{}}
	if strings.TrimSpace(s.Dir) == "" {
		return empty
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		return empty
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		return empty
	}
	if st.Version == 0 {
		st.Version = 1
	}
	if st.Cursors == nil {
		st.Cursors = map[string]string{}
	}
	return &st
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, tuiStateFileName+".*.tmp", s.tuiStatePath(), b, 0o644)
}

// SaveCursor records the selected node for one tree.
func (s Store) SaveCursor(treeID, value string) error {
	st := s.LoadTUIState()
	if value == "" {
		delete(st.Cursors, treeID)
	} else {
		st.Cursors[treeID] = value
	}
	return s.SaveTUIState(st)
}
