package ir

import (
	"reflect"
	"testing"
)

// S1 from spec.md §8: two adjacent bold+centered text components lower
// to a redundant-heavy stream; optimization must collapse it to the
// exact sequence given there.
func TestOptimizeStyleCollapseScenario(t *testing.T) {
	in := []Op{
		Init{},
		SetAlign{Align: AlignCenter},
		SetBold{On: true},
		Text{S: "A"},
		Newline{},
		SetAlign{Align: AlignCenter}, // redundant, already centered
		SetBold{On: true},           // redundant, already bold
		Text{S: "B"},
		SetBold{On: false},
		SetAlign{Align: AlignLeft},
		Newline{},
		Cut{},
	}
	want := []Op{
		Init{},
		SetAlign{Align: AlignCenter},
		SetBold{On: true},
		Text{S: "A\nB"},
		SetBold{On: false},
		SetAlign{Align: AlignLeft},
		Newline{},
		Cut{},
	}
	got := Optimize(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Optimize =\n%#v\nwant\n%#v", got, want)
	}
}

func TestOptimizeKeepsOnlyFirstInit(t *testing.T) {
	in := []Op{Init{}, Text{S: "a"}, Init{}, Text{S: "b"}}
	got := Optimize(in)
	n := 0
	for _, op := range got {
		if _, ok := op.(Init); ok {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly one Init, found %d in %#v", n, got)
	}
}

func TestOptimizeDropsAdjacentSameStyleToggle(t *testing.T) {
	in := []Op{Init{}, SetBold{On: true}, SetBold{On: false}, Text{S: "x"}}
	got := Optimize(in)
	for _, op := range got {
		if sb, ok := op.(SetBold); ok && sb.On {
			t.Fatalf("expected the dead SetBold(true) to be removed, got %#v", got)
		}
	}
}

func TestOptimizeDropsInitialNoOpStyleSet(t *testing.T) {
	// Align already defaults to AlignLeft after Init; setting it again
	// before any consumer is a no-op and must be removed entirely.
	in := []Op{Init{}, SetAlign{Align: AlignLeft}, Text{S: "x"}}
	got := Optimize(in)
	want := []Op{Init{}, Text{S: "x"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Optimize = %#v, want %#v", got, want)
	}
}

func TestOptimizeMergesPlainAdjacentText(t *testing.T) {
	in := []Op{Init{}, Text{S: "foo"}, Text{S: "bar"}}
	got := Optimize(in)
	want := []Op{Init{}, Text{S: "foobar"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Optimize = %#v, want %#v", got, want)
	}
}

func TestOptimizeDoesNotMergeTextAcrossStyleChange(t *testing.T) {
	in := []Op{Init{}, Text{S: "foo"}, SetBold{On: true}, Text{S: "bar"}}
	got := Optimize(in)
	texts := 0
	for _, op := range got {
		if _, ok := op.(Text); ok {
			texts++
		}
	}
	if texts != 2 {
		t.Fatalf("expected 2 distinct Text ops across a style boundary, got %d: %#v", texts, got)
	}
}
