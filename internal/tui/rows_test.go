package tui

import (
	"strings"
	"testing"

	"checktree/internal/model"
	"checktree/internal/tree"
	"checktree/internal/treenode"
	"checktree/internal/vdom"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func row(depth int, p treenode.Props) tree.Row {
	return tree.Row{Props: p, Depth: depth}
}

func TestRowSegments_ASCII(t *testing.T) {
	setGlyphs(glyphSetASCII)
	defer setGlyphs(glyphSetUnicode)

	cases := []struct {
		name string
		row  tree.Row
		want string
	}{
		{
			name: "collapsed parent",
			row:  row(0, treenode.Props{Value: "jupiter", Label: "Jupiter", RawChildren: []model.Descriptor{{Value: "io"}}}),
			want: "> [ ] + Jupiter",
		},
		{
			name: "expanded partial parent",
			row:  row(0, treenode.Props{Value: "jupiter", Label: "Jupiter", Expanded: true, Checked: model.Partial, RawChildren: []model.Descriptor{{Value: "io"}}}),
			want: "v [-] * Jupiter",
		},
		{
			name: "checked leaf",
			row:  row(1, treenode.Props{Value: "io", Label: "Io", Checked: model.Checked}),
			want: "    [x] - Io",
		},
		{
			name: "empty parent is still a parent",
			row:  row(0, treenode.Props{Value: "pluto", Label: "Pluto", RawChildren: []model.Descriptor{}}),
			want: "> [ ] + Pluto",
		},
		{
			name: "out of range state draws half check",
			row:  row(0, treenode.Props{Value: "x", Label: "X", Checked: model.CheckState(7)}),
			want: "  [-] - X",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead, check, rest := rowSegments(tc.row)
			if got := lead + check + rest; got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestRowSegments_IconOverride(t *testing.T) {
	setGlyphs(glyphSetUnicode)

	cases := []struct {
		name string
		icon *vdom.Elem
		want string
	}{
		{name: "default leaf icon", icon: nil, want: " · Sun"},
		{name: "override text", icon: vdom.H("span", map[string]any{"className": "fa fa-sun"}, "☉"), want: " ☉ Sun"},
		{name: "override without text", icon: vdom.H("span", map[string]any{"className": "fa fa-sun"}), want: "   Sun"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := row(0, treenode.Props{Value: "sun", Label: "Sun", Icon: tc.icon})
			if _, _, rest := rowSegments(r); rest != tc.want {
				t.Fatalf("got %q want %q", rest, tc.want)
			}
		})
	}
}

func TestNodeDelegate_FillsWidth(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	setGlyphs(glyphSetASCII)
	defer setGlyphs(glyphSetUnicode)

	d := newNodeDelegate()
	r := row(0, treenode.Props{Value: "io", Label: strings.Repeat("I", 60)})

	for _, focused := range []bool{false, true} {
		out := d.renderRow(30, r, focused)
		if got := xansi.StringWidth(out); got != 30 {
			t.Fatalf("focused=%v: width %d, want 30 (%q)", focused, got, out)
		}
		if !strings.HasPrefix(xansi.Strip(out), "  [ ] - III") {
			t.Fatalf("focused=%v: unexpected row %q", focused, xansi.Strip(out))
		}
	}
}
