package tui

import (
	"context"

	"checktree/internal/model"
	"checktree/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	// Toggle overrides the tree's own partial-toggle policy when set.
	Toggle *model.PartialToggle
	// Glyphs is the configured glyph set; CHECKTREE_TUI_GLYPHS wins over it.
	Glyphs string
}

func Run(ctx context.Context, st store.Store, treeID string, opts Options) error {
	applyGlyphPreference(opts.Glyphs)
	m, err := newAppModel(ctx, st, treeID, opts.Toggle)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
