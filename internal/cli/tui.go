package cli

import (
	"checktree/internal/store"
	"checktree/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [tree]",
		Short: "Open the interactive TUI for a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return runTUI(cmd, app, id)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App, id string) error {
	s, err := resolveStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	var args []string
	if id != "" {
		args = []string{id}
	}
	treeID, err := resolveTreeID(args)
	if err != nil {
		return writeErr(cmd, err)
	}
	if _, err := s.LoadTree(cmd.Context(), treeID); err != nil {
		return writeErr(cmd, userError(err, treeID, ""))
	}
	toggle, err := toggleOverride(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := tui.Run(cmd.Context(), s, treeID, tui.Options{Toggle: toggle, Glyphs: cfg.Glyphs()}); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
