package intersect

import (
	"reflect"
	"testing"
)

func TestIntersectKeepsMainOrder(t *testing.T) {
	eq := func(a, b string) bool { return a == b }
	kept, removed := Intersect([][]string{
		{"c", "a", "b", "d"},
		{"a", "b", "c"},
		{"b", "c", "a", "x"},
	}, eq)
	if !reflect.DeepEqual(kept, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected kept %v", kept)
	}
	if !reflect.DeepEqual(removed, []string{"d"}) {
		t.Fatalf("unexpected removed %v", removed)
	}
}

func TestIntersectSingleSetKeepsAll(t *testing.T) {
	kept, removed := Intersect([][]int{{1, 2, 3}}, func(a, b int) bool { return a == b })
	if len(kept) != 3 || len(removed) != 0 {
		t.Fatalf("a single set intersects to itself")
	}
}

func TestIntersectEmpty(t *testing.T) {
	kept, removed := Intersect[int](nil, func(a, b int) bool { return a == b })
	if kept != nil || removed != nil {
		t.Fatalf("expected nothing")
	}
}
