package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseCheckState(t *testing.T) {
	t.Parallel()

	for _, v := range []int{0, 1, 2} {
		s, err := ParseCheckState(v)
		if err != nil {
			t.Fatalf("ParseCheckState(%d): unexpected error %v", v, err)
		}
		if int(s) != v {
			t.Fatalf("ParseCheckState(%d) = %v", v, s)
		}
	}
	for _, v := range []int{-1, 3, 42} {
		if _, err := ParseCheckState(v); !errors.Is(err, ErrInvalidCheckState) {
			t.Fatalf("ParseCheckState(%d): expected ErrInvalidCheckState, got %v", v, err)
		}
	}
}

func TestCheckState_UnmarshalJSONRejectsOutOfDomain(t *testing.T) {
	t.Parallel()

	var out struct {
		Checked CheckState `json:"checked"`
	}
	if err := json.Unmarshal([]byte(`{"checked":2}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Checked != Partial {
		t.Fatalf("checked = %v, want partial", out.Checked)
	}
	for _, in := range []string{`{"checked":7}`, `{"checked":"yes"}`} {
		if err := json.Unmarshal([]byte(in), &out); !errors.Is(err, ErrInvalidCheckState) {
			t.Fatalf("unmarshal %s: expected ErrInvalidCheckState, got %v", in, err)
		}
	}
}

func TestPartialToggle_RoundTripsOptimisticFlag(t *testing.T) {
	t.Parallel()

	if !OptimisticToggle(true).Optimistic() {
		t.Fatalf("expected optimistic=true to resolve to complete")
	}
	if OptimisticToggle(false).Optimistic() {
		t.Fatalf("expected optimistic=false to resolve to clear")
	}
	if got := OptimisticToggle(true); got != PartialToggleComplete {
		t.Fatalf("expected PartialToggleComplete, got %v", got)
	}
}

func TestDescriptor_EmptyChildrenStayParent(t *testing.T) {
	t.Parallel()

	var ds []Descriptor
	in := `[{"value":"io","label":"Io"},{"value":"saturn","label":"Saturn","children":[]}]`
	if err := json.Unmarshal([]byte(in), &ds); err != nil {
		t.Fatal(err)
	}
	if ds[0].IsParent() {
		t.Fatalf("expected io to be a leaf")
	}
	if !ds[1].IsParent() {
		t.Fatalf("expected saturn with empty children to be a parent")
	}

	b, err := json.Marshal(ds)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"value":"io","label":"Io","children":null},{"value":"saturn","label":"Saturn","children":[]}]`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}

func TestCheckEvent_LeafChildrenEncodeAsNull(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(CheckEvent{Value: "io", Checked: true})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"value":"io","checked":true,"children":null}`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	t.Parallel()

	nodes := []Descriptor{
		{Value: "a", Children: []Descriptor{{Value: "a1"}, {Value: "a2"}}},
		{Value: "b"},
	}
	var seen []string
	Walk(nodes, func(d Descriptor, depth int) bool {
		seen = append(seen, d.Value)
		return d.Value != "a1"
	})
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "a1" {
		t.Fatalf("unexpected walk order: %v", seen)
	}
}
