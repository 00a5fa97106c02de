package tui

import (
	"bytes"
	"testing"

	"checktree/internal/tree"
)

func TestWriteText_ASCII(t *testing.T) {
	setGlyphs(glyphSetUnicode)

	c, err := tree.New(planets(), tree.State{
		Checked:  []string{"io"},
		Expanded: []string{"jupiter"},
	})
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, c, "ascii"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := "" +
		"  [ ] - Mercury\n" +
		"v [-] * Jupiter\n" +
		"    [x] - Io\n" +
		"    [ ] - Europa\n" +
		"  > [ ] + Galilean\n" +
		"> [ ] + Pluto\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if glyphs() != glyphSetUnicode {
		t.Fatalf("WriteText should restore the previous glyph set")
	}
}
