package cli

import (
	"checktree/internal/store"
	"checktree/internal/tree"

	"github.com/spf13/cobra"
)

// splitTreeValue accepts "<tree> <value>" or just "<value>" for the current
// tree.
func splitTreeValue(args []string) (treeArgs []string, value string) {
	if len(args) == 1 {
		return nil, args[0]
	}
	return args[:1], args[1]
}

// runIntent opens the tree, lets fire trigger one node intent, and saves the
// state the controller ends up with.
func runIntent(cmd *cobra.Command, app *App, args []string, fire func(c *tree.Controller, value string) bool) (*tree.Controller, *tree.Change, string, error) {
	treeArgs, value := splitTreeValue(args)
	var changed *tree.Change
	c, err := openTree(cmd, app, treeArgs, tree.WithChangeHook(func(ch tree.Change) { changed = &ch }))
	if err != nil {
		return nil, nil, value, err
	}
	if !fire(c, value) {
		return nil, nil, value, errNotFound("node", value)
	}
	if changed != nil && changed.Err != nil {
		return nil, nil, value, userError(changed.Err, c.TreeID(), value)
	}
	if err := saveState(cmd, app, c); err != nil {
		return nil, nil, value, err
	}
	return c, changed, value, nil
}

func saveState(cmd *cobra.Command, app *App, c *tree.Controller) error {
	return store.Store{Dir: app.Dir}.SaveState(cmd.Context(), c.TreeID(), c.State())
}

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check [tree] <value>",
		Short: "Click a node's checkbox (cascades to its subtree)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, changed, value, err := runIntent(cmd, app, args, func(c *tree.Controller, value string) bool {
				p, ok := c.NodeProps(value)
				if ok {
					p.ToggleCheck()
				}
				return ok
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			data := map[string]any{
				"tree":    c.TreeID(),
				"value":   value,
				"checked": c.CheckState(value),
				"state":   c.State(),
			}
			if changed != nil {
				data["event"] = changed.Check
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
}

func newExpandCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "expand [tree] <value>",
		Short: "Click a node's expand/collapse button",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, changed, value, err := runIntent(cmd, app, args, func(c *tree.Controller, value string) bool {
				p, ok := c.NodeProps(value)
				if ok {
					p.ToggleExpand()
				}
				return ok
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			data := map[string]any{
				"tree":     c.TreeID(),
				"value":    value,
				"expanded": c.IsExpanded(value),
				"state":    c.State(),
			}
			if changed != nil {
				data["event"] = changed.Expand
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
}

func newExpandAllCmd(app *App) *cobra.Command {
	return newBulkExpandCmd(app, "expand-all", "Expand every parent node", (*tree.Controller).ExpandAll)
}

func newCollapseAllCmd(app *App) *cobra.Command {
	return newBulkExpandCmd(app, "collapse-all", "Collapse every node", (*tree.Controller).CollapseAll)
}

func newBulkExpandCmd(app *App, use, short string, apply func(*tree.Controller)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [tree]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openTree(cmd, app, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			apply(c)
			if err := saveState(cmd, app, c); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"tree": c.TreeID(), "state": c.State()},
			})
		},
	}
}
