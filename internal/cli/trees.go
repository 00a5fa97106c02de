package cli

import (
	"strings"

	"checktree/internal/model"
	"checktree/internal/store"
	"checktree/internal/tree"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var id string
	var label string
	var noUse bool

	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Import a tree definition (JSON object or array of nodes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			def, err := store.LoadDefinitionFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if v := strings.TrimSpace(id); v != "" {
				def.ID = v
			}
			if v := strings.TrimSpace(label); v != "" {
				def.Label = v
			}
			// Reject bad ids and duplicate or empty values before anything is written.
			if err := store.ValidateTreeID(def.ID); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := tree.New(def, tree.State{}); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.SaveTree(cmd.Context(), def); err != nil {
				return writeErr(cmd, err)
			}

			current := false
			if !noUse {
				cfg, err := store.LoadConfig()
				if err != nil {
					return writeErr(cmd, err)
				}
				if cfg.CurrentTree == "" {
					cfg.CurrentTree = def.ID
					if err := store.SaveConfig(cfg); err != nil {
						return writeErr(cmd, err)
					}
				}
				current = cfg.CurrentTree == def.ID
			}

			nodes := 0
			model.Walk(def.Nodes, func(model.Descriptor, int) bool {
				nodes++
				return true
			})
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"id":      def.ID,
					"label":   def.Label,
					"nodes":   nodes,
					"dir":     app.Dir,
					"current": current,
				},
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Tree id (default: id from the file, else generated)")
	cmd.Flags().StringVar(&label, "label", "", "Tree label (default: label from the file, else file name)")
	cmd.Flags().BoolVar(&noUse, "no-use", false, "Do not make this the current tree")
	return cmd
}

func newTreesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trees",
		Short: "List stored trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			trees, err := s.ListTrees(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if trees == nil {
				trees = []store.TreeSummary{}
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": trees,
				"meta": map[string]any{"currentTree": cfg.CurrentTree},
			})
		},
	}
}

type nodeView struct {
	Value    string           `json:"value"`
	Label    string           `json:"label"`
	Depth    int              `json:"depth"`
	Parent   string           `json:"parent,omitempty"`
	Checked  model.CheckState `json:"checked"`
	Expanded bool             `json:"expanded"`
	IsParent bool             `json:"isParent"`
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [tree]",
		Short: "Show a tree's nodes with their derived check states",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openTree(cmd, app, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			def := c.Def()
			var nodes []nodeView
			model.Walk(def.Nodes, func(d model.Descriptor, depth int) bool {
				nodes = append(nodes, nodeView{
					Value:    d.Value,
					Label:    d.Label,
					Depth:    depth,
					Parent:   c.Parent(d.Value),
					Checked:  c.CheckState(d.Value),
					Expanded: c.IsExpanded(d.Value),
					IsParent: d.IsParent(),
				})
				return true
			})
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"id":     def.ID,
					"label":  def.Label,
					"toggle": c.Toggle().String(),
					"state":  c.State(),
					"nodes":  nodes,
				},
			})
		},
	}
}

func newUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <tree>",
		Short: "Set the current tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if _, err := s.LoadTree(cmd.Context(), id); err != nil {
				return writeErr(cmd, userError(err, id, ""))
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentTree = id
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"currentTree": id}})
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <tree>",
		Short: "Delete a tree and its state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if err := s.DeleteTree(cmd.Context(), id); err != nil {
				return writeErr(cmd, userError(err, id, ""))
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if cfg.CurrentTree == id {
				cfg.CurrentTree = ""
				if err := store.SaveConfig(cfg); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}

// openTree loads the tree named by args (or the current tree) with the
// effective partial-toggle policy.
func openTree(cmd *cobra.Command, app *App, args []string, opts ...tree.Option) (*tree.Controller, error) {
	s, err := resolveStore(app)
	if err != nil {
		return nil, err
	}
	id, err := resolveTreeID(args)
	if err != nil {
		return nil, err
	}
	toggle, err := toggleOverride(app)
	if err != nil {
		return nil, err
	}
	if toggle != nil {
		opts = append(opts, tree.WithToggle(*toggle))
	}
	c, err := s.Open(cmd.Context(), id, opts...)
	if err != nil {
		return nil, userError(err, id, "")
	}
	return c, nil
}
