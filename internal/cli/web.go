package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"checktree/internal/store"
	"checktree/internal/web"

	"github.com/spf13/cobra"
)

const defaultWebAddr = "127.0.0.1:3336"

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var datastarURL string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the trees as interactive HTML (datastar)",
		Long: strings.TrimSpace(`
Serve every stored tree as server-rendered HTML. Clicks are posted back to the
server, applied to the tree, saved, and patched into every open page over SSE.
Writes made by the CLI or TUI in another process are picked up as well.
`),
		Example: strings.TrimSpace(`
# Serve on the default address
checktree web

# Serve a specific store on all interfaces
checktree --dir ./trees web --addr :3336
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = envOr("CHECKTREE_WEB_ADDR", cfg.WebAddr())
			}
			if listenAddr == "" {
				listenAddr = defaultWebAddr
			}
			toggle, err := toggleOverride(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:        listenAddr,
				Dir:         s.Dir,
				DatastarURL: datastarURL,
				Toggle:      toggle,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				srv.Close()
				return writeErr(cmd, err)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr": ln.Addr().String(),
					"url":  "http://" + ln.Addr().String() + "/",
					"dir":  s.Dir,
				},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Serve(ctx, ln); err != nil && err != context.Canceled {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $CHECKTREE_WEB_ADDR, config web.addr, or "+defaultWebAddr+")")
	cmd.Flags().StringVar(&datastarURL, "datastar-url", "", "URL of the datastar client script (default: jsDelivr CDN)")
	return cmd
}
