package model

import (
	"strconv"
	"strings"
)

type refKind uint8

const (
	refNone refKind = iota
	refDirect
	refID
	refSlug
)

// Ref identifies a record either directly, by primary key or by slug. The
// zero value refers to nothing and resolves to nil without an error.
type Ref[T any] struct {
	kind   refKind
	entity *T
	id     uint
	slug   string
}

type (
	SectionRef      = Ref[Section]
	GroupRef        = Ref[Group]
	QuestionRef     = Ref[Question]
	QuestionTypeRef = Ref[QuestionType]
)

// NoRef is the empty reference, spelled out for call sites.
func NoRef[T any]() Ref[T] {
	return Ref[T]{}
}

func Of[T any](entity *T) Ref[T] {
	if entity == nil {
		return Ref[T]{}
	}
	return Ref[T]{kind: refDirect, entity: entity}
}

func ByID[T any](id uint) Ref[T] {
	return Ref[T]{kind: refID, id: id}
}

func BySlug[T any](slug string) Ref[T] {
	return Ref[T]{kind: refSlug, slug: slug}
}

// ParseRef reads an identifier coming from the outside world: all digits is
// a primary key, anything else a slug, blank is no reference.
func ParseRef[T any](s string) Ref[T] {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref[T]{}
	}
	if id, err := strconv.ParseUint(s, 10, 64); err == nil {
		return ByID[T](uint(id))
	}
	return BySlug[T](s)
}

func (r Ref[T]) IsZero() bool {
	return r.kind == refNone
}

func (r Ref[T]) Entity() (*T, bool) {
	return r.entity, r.kind == refDirect
}

func (r Ref[T]) ID() (uint, bool) {
	return r.id, r.kind == refID
}

func (r Ref[T]) Slug() (string, bool) {
	return r.slug, r.kind == refSlug
}

func (r Ref[T]) String() string {
	switch r.kind {
	case refDirect:
		return "<entity>"
	case refID:
		return strconv.FormatUint(uint64(r.id), 10)
	case refSlug:
		return r.slug
	}
	return "<none>"
}
