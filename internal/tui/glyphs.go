package tui

import (
	"os"
	"strings"
	"sync"

	"checktree/internal/treenode"
)

// Terminals can't draw the web icon font, so every icon class maps to a glyph.
// The ASCII set exists for fonts that render box and check glyphs poorly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

const glyphsEnv = "CHECKTREE_TUI_GLYPHS"

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set from the environment, falling back
// to the configured value. Unknown values keep the current set.
func applyGlyphPreference(configured string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(glyphsEnv)))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configured))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphsName(gs glyphSet) string {
	switch gs {
	case glyphSetASCII:
		return "ASCII"
	default:
		return "Unicode"
	}
}

var unicodeIcons = map[string]string{
	treenode.IconExpandClose: "▸",
	treenode.IconExpandOpen:  "▾",
	treenode.IconUncheck:     "☐",
	treenode.IconCheck:       "☑",
	treenode.IconHalfCheck:   "◩",
	treenode.IconLeaf:        "·",
	treenode.IconParentClose: "□",
	treenode.IconParentOpen:  "▣",
}

var asciiIcons = map[string]string{
	treenode.IconExpandClose: ">",
	treenode.IconExpandOpen:  "v",
	treenode.IconUncheck:     "[ ]",
	treenode.IconCheck:       "[x]",
	treenode.IconHalfCheck:   "[-]",
	treenode.IconLeaf:        "-",
	treenode.IconParentClose: "+",
	treenode.IconParentOpen:  "*",
}

// glyphFor returns the glyph drawn for an icon class; unknown classes draw
// nothing.
func glyphFor(class string) string {
	if glyphs() == glyphSetASCII {
		return asciiIcons[class]
	}
	return unicodeIcons[class]
}

// glyphPlaceholder is the blank collapse column drawn for leaves.
func glyphPlaceholder() string {
	return " "
}
