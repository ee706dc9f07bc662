package model

import "testing"

func TestParseRef(t *testing.T) {
	if r := ParseRef[Section]("  "); !r.IsZero() {
		t.Fatalf("blank should be no reference, got %s", r)
	}
	if id, ok := ParseRef[Section]("42").ID(); !ok || id != 42 {
		t.Fatalf("digits should be an id, got %d %v", id, ok)
	}
	if slug, ok := ParseRef[Section]("section_1_ab12cd").Slug(); !ok || slug != "section_1_ab12cd" {
		t.Fatalf("slug not recognised: %q %v", slug, ok)
	}
	if _, ok := ParseRef[Section]("12a").ID(); ok {
		t.Fatalf("mixed input must not parse as an id")
	}
}

func TestOfNilIsNoRef(t *testing.T) {
	if !Of[Group](nil).IsZero() {
		t.Fatalf("Of(nil) should be the empty reference")
	}
	if !NoRef[Group]().IsZero() {
		t.Fatalf("NoRef should be empty")
	}
	g := &Group{Name: "x"}
	if e, ok := Of(g).Entity(); !ok || e != g {
		t.Fatalf("Of should carry the entity")
	}
}
