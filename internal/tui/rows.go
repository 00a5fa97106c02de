package tui

import (
	"fmt"
	"io"
	"strings"

	"checktree/internal/model"
	"checktree/internal/tree"
	"checktree/internal/treenode"
	"checktree/internal/vdom"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// rowItem is one visible node.
type rowItem struct {
	row tree.Row
}

func (i rowItem) FilterValue() string { return i.row.Props.Label }
func (i rowItem) Title() string       { return i.row.Props.Label }

func rowItems(rows []tree.Row) []list.Item {
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, rowItem{row: r})
	}
	return items
}

type nodeDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newNodeDelegate() nodeDelegate {
	return nodeDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d nodeDelegate) Height() int                             { return 1 }
func (d nodeDelegate) Spacing() int                            { return 0 }
func (d nodeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d nodeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	width := m.Width()
	if width < 4 {
		return
	}
	fmt.Fprint(w, d.renderRow(width, it.row, index == m.Index()))
}

// rowSegments splits a row into its plain-text columns: indent, collapse
// glyph, checkbox glyph, node icon and label.
func rowSegments(r tree.Row) (lead, check, rest string) {
	v := treenode.Derive(r.Props)

	collapse := glyphPlaceholder()
	if v.Collapsible {
		collapse = glyphFor(v.CollapseIcon)
	}

	icon := glyphFor(v.NodeIcon)
	if v.IconOverride != nil {
		icon = vdom.TextContent(v.IconOverride)
	}
	if icon == "" {
		icon = " "
	}

	lead = strings.Repeat("  ", r.Depth) + collapse + " "
	check = glyphFor(v.CheckboxIcon)
	rest = " " + icon + " " + v.Label
	return lead, check, rest
}

func (d nodeDelegate) renderRow(width int, r tree.Row, focused bool) string {
	lead, check, rest := rowSegments(r)

	if focused {
		// One style for the whole line so the background covers every column.
		return fitWidth(d.selected, lead+check+rest, width)
	}

	checkStyle := d.normal
	switch r.Props.Checked {
	case model.Checked:
		checkStyle = styleChecked
	case model.Unchecked:
	default:
		checkStyle = stylePartial
	}
	out := d.normal.Render(lead) + checkStyle.Render(check) + d.normal.Render(rest)
	curW := xansi.StringWidth(out)
	switch {
	case curW < width:
		out += strings.Repeat(" ", width-curW)
	case curW > width:
		out = xansi.Cut(out, 0, width)
	}
	return out
}

func fitWidth(style lipgloss.Style, line string, width int) string {
	plainW := xansi.StringWidth(line)
	if plainW < width {
		line += strings.Repeat(" ", width-plainW)
	} else if plainW > width {
		line = xansi.Cut(line, 0, width)
	}
	return style.Render(line)
}
