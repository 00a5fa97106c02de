package cli

import (
	"errors"
	"fmt"

	"checktree/internal/store"
	"checktree/internal/tui"
	"checktree/internal/vdom"

	"github.com/spf13/cobra"
)

func newRenderCmd(app *App) *cobra.Command {
	var asHTML bool
	var asText bool
	var glyphs string

	cmd := &cobra.Command{
		Use:   "render [tree]",
		Short: "Render a tree as HTML (default) or as TUI-style text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asHTML && asText {
				return writeErr(cmd, errors.New("--html and --text are mutually exclusive"))
			}
			c, err := openTree(cmd, app, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			if asText {
				if glyphs == "" {
					cfg, err := store.LoadConfig()
					if err != nil {
						return writeErr(cmd, err)
					}
					glyphs = envOr("CHECKTREE_TUI_GLYPHS", cfg.Glyphs())
				}
				if err := tui.WriteText(cmd.OutOrStdout(), c, glyphs); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}
			// Handlers are dropped: the output is a static snapshot.
			html, err := vdom.RenderHTMLString(c.Render(), vdom.Options{})
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML (default)")
	cmd.Flags().BoolVar(&asText, "text", false, "Render indented text rows")
	cmd.Flags().StringVar(&glyphs, "glyphs", "", "Glyph set for --text (unicode|ascii)")
	return cmd
}
