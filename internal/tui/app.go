package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"checktree/internal/model"
	"checktree/internal/store"
	"checktree/internal/tree"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type reloadTickMsg struct{}

// session outlives the value copies bubbletea makes of appModel, so the
// controller's change hook has somewhere stable to report to.
type session struct {
	last *tree.Change
}

type appModel struct {
	ctx    context.Context
	store  store.Store
	treeID string
	toggle *model.PartialToggle

	ctrl *tree.Controller
	sess *session

	keys keyMap
	list list.Model

	width  int
	height int

	status string
	err    error

	lastModTime time.Time
}

func newAppModel(ctx context.Context, st store.Store, treeID string, toggle *model.PartialToggle) (appModel, error) {
	m := appModel{
		ctx:    ctx,
		store:  st,
		treeID: treeID,
		toggle: toggle,
		sess:   &session{},
		keys:   defaultKeyMap(),
		list:   newList(),
		width:  80,
		height: 24,
	}
	if err := m.open(); err != nil {
		return appModel{}, err
	}
	m.resizeList()
	// Restore the last cursor when that node is still visible.
	m.refreshRows(st.LoadTUIState().Cursors[treeID])
	return m, nil
}

func newList() list.Model {
	l := list.New(nil, newNodeDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Space, h and l belong to the tree.
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.PrevPage.SetKeys("pgup", "b", "u")
	l.KeyMap.NextPage.SetKeys("pgdown", "f", "d")
	return l
}

func (m *appModel) open() error {
	sess := m.sess
	opts := []tree.Option{tree.WithChangeHook(func(ch tree.Change) {
		sess.last = &ch
	})}
	if m.toggle != nil {
		opts = append(opts, tree.WithToggle(*m.toggle))
	}
	c, err := m.store.Open(m.ctx, m.treeID, opts...)
	if err != nil {
		return err
	}
	m.ctrl = c
	m.lastModTime = m.store.ModTime()
	return nil
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeList()
		return m, nil

	case reloadTickMsg:
		if m.store.ModTime().After(m.lastModTime) {
			m.reload()
		}
		return m, tickReload()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			_ = m.store.SaveCursor(m.treeID, m.selectedValue())
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Check):
			if r, ok := m.selected(); ok {
				r.Props.ToggleCheck()
				m.afterIntent(r.Props.Value)
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if r, ok := m.selected(); ok && r.Props.HasChildren() {
				r.Props.ToggleExpand()
				m.afterIntent(r.Props.Value)
			}
			return m, nil
		case key.Matches(msg, m.keys.Expand):
			if r, ok := m.selected(); ok && r.Props.HasChildren() && !r.Props.Expanded {
				r.Props.ToggleExpand()
				m.afterIntent(r.Props.Value)
			}
			return m, nil
		case key.Matches(msg, m.keys.Collapse):
			r, ok := m.selected()
			if !ok {
				return m, nil
			}
			if r.Props.HasChildren() && r.Props.Expanded {
				r.Props.ToggleExpand()
				m.afterIntent(r.Props.Value)
				return m, nil
			}
			if parent := m.ctrl.Parent(r.Props.Value); parent != "" {
				m.selectValue(parent)
			}
			return m, nil
		case key.Matches(msg, m.keys.ExpandAll):
			m.ctrl.ExpandAll()
			m.persist("expanded all")
			m.refreshRows(m.selectedValue())
			return m, nil
		case key.Matches(msg, m.keys.CollapseAll):
			sel := m.selectedValue()
			m.ctrl.CollapseAll()
			m.persist("collapsed all")
			m.refreshRows(m.topAncestor(sel))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// afterIntent persists whatever the last node intent changed.
func (m *appModel) afterIntent(value string) {
	ch := m.sess.last
	m.sess.last = nil
	switch {
	case ch == nil:
	case ch.Err != nil:
		m.err = ch.Err
	case ch.Check != nil:
		verb := "unchecked"
		if ch.Check.Checked {
			verb = "checked"
		}
		m.persist(verb + " " + ch.Check.Value)
	case ch.Expand != nil:
		verb := "collapsed"
		if ch.Expand.Expanded {
			verb = "expanded"
		}
		m.persist(verb + " " + ch.Expand.Value)
	}
	m.refreshRows(value)
}

func (m *appModel) persist(status string) {
	if err := m.store.SaveState(m.ctx, m.treeID, m.ctrl.State()); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = status
	m.lastModTime = m.store.ModTime()
}

// reload rebuilds the controller from disk so edits made by the CLI or web
// server in another process show up.
func (m *appModel) reload() {
	sel := m.selectedValue()
	if err := m.open(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "reloaded"
	m.refreshRows(sel)
}

func (m *appModel) refreshRows(keep string) {
	rows := m.ctrl.Rows()
	m.list.SetItems(rowItems(rows))
	if keep != "" {
		m.selectValue(keep)
	}
}

func (m *appModel) selectValue(value string) {
	for i, it := range m.list.Items() {
		if r, ok := it.(rowItem); ok && r.row.Props.Value == value {
			m.list.Select(i)
			return
		}
	}
}

func (m appModel) selected() (tree.Row, bool) {
	it, ok := m.list.SelectedItem().(rowItem)
	if !ok {
		return tree.Row{}, false
	}
	return it.row, true
}

func (m appModel) selectedValue() string {
	if r, ok := m.selected(); ok {
		return r.Props.Value
	}
	return ""
}

func (m appModel) topAncestor(value string) string {
	for value != "" {
		p := m.ctrl.Parent(value)
		if p == "" {
			break
		}
		value = p
	}
	return value
}

func (m *appModel) resizeList() {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width, h)
}

func (m appModel) View() string {
	def := m.ctrl.Def()
	label := strings.TrimSpace(def.Label)
	if label == "" {
		label = def.ID
	}
	header := styleHeader.Render("checktree  "+label) +
		styleMuted.Render(fmt.Sprintf("  %s  toggle=%s  glyphs=%s", def.ID, m.ctrl.Toggle(), glyphsName(glyphs())))

	var footer string
	switch {
	case m.err != nil:
		footer = styleError.Render("error: " + m.err.Error())
	case m.status != "":
		footer = styleMuted.Render(m.status)
	}
	return header + "\n" + m.list.View() + "\n" + footer + "\n" + styleMuted.Render(m.helpLine())
}

func (m appModel) helpLine() string {
	parts := make([]string, 0, 5)
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}
