package layout

import (
	"reflect"
	"testing"
)

func TestTableBasic(t *testing.T) {
	got := texts(render(t, "| a | b |\n|---|---|\n| 1 | 2 |\n", 30))
	want := []string{"a │ b", "──┼──", "1 │ 2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestTableHeaderStyle(t *testing.T) {
	lines := render(t, "| a | b |\n|---|---|\n| 1 | 2 |\n", 30)

	if st := lines[0].Fragments[0].Style; st.Kind != KindTableHeader {
		t.Errorf("header style = %+v", st)
	}
	if st := lines[1].Fragments[0].Style; st.Kind != KindTableBorder {
		t.Errorf("separator style = %+v", st)
	}
	if st := lines[2].Fragments[0].Style; st.Kind != KindText {
		t.Errorf("body style = %+v", st)
	}
}

func TestTableAlignment(t *testing.T) {
	got := texts(render(t, "| h1 | h2 | h3 |\n|:---|:--:|---:|\n| a | b | c |\n", 40))
	want := []string{
		"h1 │ h2 │ h3",
		"───┼────┼───",
		"a  │ b  │  c",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestTableShrinksWidestColumn(t *testing.T) {
	src := "| head | x |\n|------|---|\n| a very long cell here | y |\n"
	lines := render(t, src, 16)

	got := texts(lines)
	want := []string{
		"head         │ x",
		"─────────────┼──",
		"a very long… │ y",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	for i, ln := range lines {
		if ln.Truncated {
			t.Errorf("line %d flagged truncated after fitting", i)
		}
		if ln.Width() > 16 {
			t.Errorf("line %d is %d columns", i, ln.Width())
		}
	}
}

func TestTableTooNarrowFlagsTruncated(t *testing.T) {
	lines := render(t, "| aaaa | bbbb | cccc |\n|---|---|---|\n", 8)

	for i, ln := range lines {
		if !ln.Truncated {
			t.Errorf("line %d not flagged truncated", i)
		}
	}
	if got := lines[0].Text(); got != "… │ … │ …" {
		t.Errorf("header = %q", got)
	}
}

func TestTableCellLinkAnchor(t *testing.T) {
	lines := render(t, "| doc |\n|-----|\n| [a](b.md) |\n", 20)

	got := texts(lines)
	want := []string{"doc", "───", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	anchors := []Anchor{{Start: 0, End: 1, Target: "b.md"}}
	if !reflect.DeepEqual(lines[2].Anchors, anchors) {
		t.Errorf("anchors = %+v, want %+v", lines[2].Anchors, anchors)
	}
}
