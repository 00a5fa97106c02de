package tui

import (
	"fmt"
	"io"
	"strings"

	"checktree/internal/tree"
)

// WriteText prints the visible rows of c the way the TUI draws them, without
// styling. glyphSet is "unicode" or "ascii"; anything else means unicode.
func WriteText(w io.Writer, c *tree.Controller, glyphSet string) error {
	prev := glyphs()
	defer setGlyphs(prev)
	if strings.EqualFold(strings.TrimSpace(glyphSet), "ascii") {
		setGlyphs(glyphSetASCII)
	} else {
		setGlyphs(glyphSetUnicode)
	}

	for _, r := range c.Rows() {
		lead, check, rest := rowSegments(r)
		if _, err := fmt.Fprintln(w, strings.TrimRight(lead+check+rest, " ")); err != nil {
			return err
		}
	}
	return nil
}
