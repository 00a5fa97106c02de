package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"checktree/internal/model"
	"checktree/internal/tree"
)

func solarSystem() model.TreeDef {
	return model.TreeDef{
		ID:    "planets",
		Label: "Planets",
		Nodes: []model.Descriptor{
			{Value: "mercury", Label: "Mercury"},
			{Value: "jupiter", Label: "Jupiter", Children: []model.Descriptor{
				{Value: "io", Label: "Io"},
				{Value: "europa", Label: "Europa"},
			}},
		},
	}
}

func TestSQLiteState_TreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	def := solarSystem()
	if err := s.SaveTree(ctx, def); err != nil {
		t.Fatalf("SaveTree: %v", err)
	}
	got, err := s.LoadTree(ctx, "planets")
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	if !reflect.DeepEqual(got, def) {
		t.Fatalf("tree mismatch:\n got: %#v\nwant: %#v", got, def)
	}

	sums, err := s.ListTrees(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 1 || sums[0].ID != "planets" || sums[0].Nodes != 4 {
		t.Fatalf("unexpected summaries: %#v", sums)
	}
}

func TestSQLiteState_StateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if err := s.SaveTree(ctx, solarSystem()); err != nil {
		t.Fatal(err)
	}

	st := tree.State{Checked: []string{"io", "io", "mercury"}, Expanded: []string{"jupiter"}}
	if err := s.SaveState(ctx, "planets", st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	got, err := s.LoadState(ctx, "planets")
	if err != nil {
		t.Fatal(err)
	}
	want := tree.State{Checked: []string{"io", "mercury"}, Expanded: []string{"jupiter"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("state = %#v, want %#v", got, want)
	}

	c, err := s.Open(ctx, "planets")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.CheckState("jupiter"); got != model.Partial {
		t.Fatalf("jupiter = %v, want partial", got)
	}
}

func TestSQLiteState_SaveTreeKeepsState(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	def := solarSystem()
	if err := s.SaveTree(ctx, def); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveState(ctx, "planets", tree.State{Checked: []string{"io"}}); err != nil {
		t.Fatal(err)
	}
	def.Label = "Renamed"
	if err := s.SaveTree(ctx, def); err != nil {
		t.Fatal(err)
	}
	st, err := s.LoadState(ctx, "planets")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(st.Checked, []string{"io"}) {
		t.Fatalf("expected state to survive a definition update, got %#v", st)
	}
}

func TestSQLiteState_NotFound(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	if _, err := s.LoadTree(ctx, "nope"); !errors.Is(err, ErrTreeNotFound) {
		t.Fatalf("LoadTree: expected ErrTreeNotFound, got %v", err)
	}
	if err := s.SaveState(ctx, "nope", tree.State{}); !errors.Is(err, ErrTreeNotFound) {
		t.Fatalf("SaveState: expected ErrTreeNotFound, got %v", err)
	}
	if err := s.DeleteTree(ctx, "nope"); !errors.Is(err, ErrTreeNotFound) {
		t.Fatalf("DeleteTree: expected ErrTreeNotFound, got %v", err)
	}
}

func TestSQLiteState_DeleteTreeDropsState(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if err := s.SaveTree(ctx, solarSystem()); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveState(ctx, "planets", tree.State{Checked: []string{"io"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTree(ctx, "planets"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTree(ctx, solarSystem()); err != nil {
		t.Fatal(err)
	}
	st, err := s.LoadState(ctx, "planets")
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Checked) != 0 {
		t.Fatalf("expected state to be gone after delete, got %#v", st)
	}
}

func TestIsDatabaseFile(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"/x/checktree.sqlite":     true,
		"/x/checktree.sqlite-wal": true,
		"checktree.sqlite-shm":    true,
		"/x/config.json":          false,
	} {
		if got := IsDatabaseFile(name); got != want {
			t.Fatalf("IsDatabaseFile(%q) = %v, want %v", name, got, want)
		}
	}
}
