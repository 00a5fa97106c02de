package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"checktree/internal/model"
	"checktree/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func planets() model.TreeDef {
	return model.TreeDef{
		ID:    "planets",
		Label: "Planets",
		Nodes: []model.Descriptor{
			{Value: "mercury", Label: "Mercury"},
			{Value: "jupiter", Label: "Jupiter", Children: []model.Descriptor{
				{Value: "io", Label: "Io"},
				{Value: "europa", Label: "Europa"},
				{Value: "galilean", Label: "Galilean", Children: []model.Descriptor{
					{Value: "ganymede", Label: "Ganymede"},
					{Value: "callisto", Label: "Callisto"},
				}},
			}},
			{Value: "pluto", Label: "Pluto", Children: []model.Descriptor{}},
		},
	}
}

func newTestModel(t *testing.T, toggle *model.PartialToggle) (appModel, store.Store) {
	t.Helper()
	ctx := context.Background()
	st := store.Store{Dir: t.TempDir()}
	if err := st.SaveTree(ctx, planets()); err != nil {
		t.Fatalf("SaveTree: %v", err)
	}
	m, err := newAppModel(ctx, st, "planets", toggle)
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}
	return m, st
}

func press(t *testing.T, m appModel, keys ...tea.KeyMsg) appModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(appModel)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func visibleValues(m appModel) []string {
	var out []string
	for _, it := range m.list.Items() {
		out = append(out, it.(rowItem).row.Props.Value)
	}
	return out
}

func TestApp_StartsCollapsed(t *testing.T) {
	m, _ := newTestModel(t, nil)
	want := []string{"mercury", "jupiter", "pluto"}
	if got := visibleValues(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if got := m.selectedValue(); got != "mercury" {
		t.Fatalf("selected = %q, want mercury", got)
	}
}

func TestApp_SpaceChecksLeafAndPersists(t *testing.T) {
	m, st := newTestModel(t, nil)
	m = press(t, m, keySpace)

	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if got := m.ctrl.CheckState("mercury"); got != model.Checked {
		t.Fatalf("mercury = %v, want checked", got)
	}
	saved, err := st.LoadState(context.Background(), "planets")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !reflect.DeepEqual(saved.Checked, []string{"mercury"}) {
		t.Fatalf("saved checked = %v", saved.Checked)
	}
	if m.status != "checked mercury" {
		t.Fatalf("status = %q", m.status)
	}

	m = press(t, m, runes("x"))
	if got := m.ctrl.CheckState("mercury"); got != model.Unchecked {
		t.Fatalf("x should toggle back; got %v", got)
	}
}

func TestApp_EnterExpandsAndKeepsSelection(t *testing.T) {
	m, st := newTestModel(t, nil)
	m = press(t, m, keyDown, keyEnter)

	want := []string{"mercury", "jupiter", "io", "europa", "galilean", "pluto"}
	if got := visibleValues(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if got := m.selectedValue(); got != "jupiter" {
		t.Fatalf("selected = %q, want jupiter", got)
	}
	saved, err := st.LoadState(context.Background(), "planets")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !reflect.DeepEqual(saved.Expanded, []string{"jupiter"}) {
		t.Fatalf("saved expanded = %v", saved.Expanded)
	}

	// Enter on a leaf does nothing.
	m = press(t, m, keyDown, keyEnter)
	if got := len(visibleValues(m)); got != 6 {
		t.Fatalf("enter on leaf changed rows: %d", got)
	}
}

func TestApp_CheckParentCascades(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, keyDown, keySpace)

	for _, v := range []string{"io", "europa", "ganymede", "callisto"} {
		if got := m.ctrl.CheckState(v); got != model.Checked {
			t.Fatalf("%s = %v, want checked", v, got)
		}
	}
	if got := m.ctrl.CheckState("jupiter"); got != model.Checked {
		t.Fatalf("jupiter = %v, want checked", got)
	}
}

func TestApp_PartialParentFollowsToggle(t *testing.T) {
	// Expand jupiter, check io, back up to jupiter, then check it.
	seq := []tea.KeyMsg{keyDown, keyRight, keyDown, keySpace, keyLeft, keySpace}

	m, _ := newTestModel(t, nil)
	m = press(t, m, seq...)
	if got := m.ctrl.CheckState("io"); got != model.Unchecked {
		t.Fatalf("clear policy: io = %v, want unchecked", got)
	}

	complete := model.PartialToggleComplete
	m, _ = newTestModel(t, &complete)
	m = press(t, m, seq...)
	if got := m.ctrl.CheckState("jupiter"); got != model.Checked {
		t.Fatalf("complete policy: jupiter = %v, want checked", got)
	}
}

func TestApp_LeftOnChildSelectsParent(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, keyDown, keyRight, keyDown, keyDown)
	if got := m.selectedValue(); got != "europa" {
		t.Fatalf("selected = %q, want europa", got)
	}
	m = press(t, m, keyLeft)
	if got := m.selectedValue(); got != "jupiter" {
		t.Fatalf("selected = %q, want jupiter", got)
	}
	m = press(t, m, keyLeft)
	if m.ctrl.IsExpanded("jupiter") {
		t.Fatalf("left on an expanded parent should collapse it")
	}
}

func TestApp_EmptyParentChecksItself(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, keyDown, keyDown, keySpace)
	if got := m.ctrl.CheckState("pluto"); got != model.Checked {
		t.Fatalf("pluto = %v, want checked", got)
	}
}

func TestApp_ExpandAllCollapseAll(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, runes("E"))
	if got := len(visibleValues(m)); got != 8 {
		t.Fatalf("expand all: %d rows, want 8", got)
	}

	for m.selectedValue() != "callisto" {
		m = press(t, m, keyDown)
	}
	m = press(t, m, runes("C"))
	if got := visibleValues(m); !reflect.DeepEqual(got, []string{"mercury", "jupiter", "pluto"}) {
		t.Fatalf("collapse all rows = %v", got)
	}
	if got := m.selectedValue(); got != "jupiter" {
		t.Fatalf("selection should move to the top ancestor; got %q", got)
	}
}

func TestApp_ReloadPicksUpExternalWrites(t *testing.T) {
	m, st := newTestModel(t, nil)
	state, err := st.LoadState(context.Background(), "planets")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	state.Checked = []string{"mercury"}
	if err := st.SaveState(context.Background(), "planets", state); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	m = press(t, m, runes("r"))
	if got := m.ctrl.CheckState("mercury"); got != model.Checked {
		t.Fatalf("mercury = %v after reload, want checked", got)
	}
}

func TestApp_QuitKey(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestApp_ViewShowsTreeAndHelp(t *testing.T) {
	setGlyphs(glyphSetASCII)
	defer setGlyphs(glyphSetUnicode)

	m, _ := newTestModel(t, nil)
	out := m.View()
	for _, want := range []string{"Planets", "Jupiter", "space check", "q quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestApp_RestoresCursorAcrossLaunches(t *testing.T) {
	m, st := newTestModel(t, nil)
	m = press(t, m, keyDown, keyDown)
	if got := m.selectedValue(); got != "pluto" {
		t.Fatalf("selected = %q, want pluto", got)
	}
	m.Update(runes("q"))

	again, err := newAppModel(context.Background(), st, "planets", nil)
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}
	if got := again.selectedValue(); got != "pluto" {
		t.Fatalf("restored selection = %q, want pluto", got)
	}
}
