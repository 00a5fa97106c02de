package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"checktree/internal/format"
	"checktree/internal/model"
	"checktree/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	Optimistic bool

	// optimisticSet is true when --optimistic or CHECKTREE_OPTIMISTIC was given.
	optimisticSet bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "checktree",
		Short:        "Tri-state checkbox trees: CLI, TUI and web",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Import a tree definition and make it current
  checktree init planets.json

  # Open the interactive TUI for the current tree
  checktree

  # Scriptable commands
  checktree check planets jupiter
  checktree render planets --text

  # Direct tree lookup (shortcut for: checktree tui <tree-id>)
  checktree tree-1a2b3c4d5e6f
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("optimistic") {
			app.optimisticSet = true
			return nil
		}
		if v := strings.TrimSpace(os.Getenv("CHECKTREE_OPTIMISTIC")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("CHECKTREE_OPTIMISTIC: %w", err)
			}
			app.Optimistic = b
			app.optimisticSet = true
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CHECKTREE_DIR", ""), "Path to store dir (default: <config dir>/data)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CHECKTREE_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().BoolVar(&app.Optimistic, "optimistic", false, "Clicking a half-checked node checks its subtree instead of clearing it")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTreesCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newCheckCmd(app))
	cmd.AddCommand(newExpandCmd(app))
	cmd.AddCommand(newExpandAllCmd(app))
	cmd.AddCommand(newCollapseAllCmd(app))
	cmd.AddCommand(newUseCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func resolveStore(app *App) (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

// resolveTreeID returns the explicit tree argument, or the current tree from
// the global config.
func resolveTreeID(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.CurrentTree == "" {
		return "", errors.New("no current tree; run `checktree use <tree>` or pass a tree id")
	}
	return cfg.CurrentTree, nil
}

// toggleOverride is the partial-toggle policy forced by flags, env or
// config. nil means each tree keeps its own.
func toggleOverride(app *App) (*model.PartialToggle, error) {
	if app.optimisticSet {
		t := model.OptimisticToggle(app.Optimistic)
		return &t, nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.OptimisticToggle == nil {
		return nil, nil
	}
	t := model.OptimisticToggle(*cfg.OptimisticToggle)
	return &t, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
