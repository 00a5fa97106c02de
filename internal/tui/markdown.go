package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

const markdownStyleEnv = "CHECKTREE_MD_STYLE"

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal
	// queries, so styles are always explicit.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderMarkdown renders md for a terminal, wrapped at width. On any
// renderer error the source is returned unchanged.
func RenderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownStyle follows CHECKTREE_MD_STYLE; the ASCII glyph set implies the
// ASCII style.
func markdownStyle() string {
	switch s := strings.ToLower(strings.TrimSpace(os.Getenv(markdownStyleEnv))); s {
	case styles.DarkStyle, styles.LightStyle, styles.NoTTYStyle, styles.AsciiStyle:
		return s
	}
	if glyphs() == glyphSetASCII {
		return styles.AsciiStyle
	}
	return styles.DarkStyle
}
