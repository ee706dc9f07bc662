package util

import (
	"errors"
	"fmt"
)

var (
	ErrSectionNotFound       = errors.New("section not found")
	ErrGroupNotFound         = errors.New("group not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrQuestionTypeNotFound  = errors.New("question type not found")
	ErrAnswerableNotFound    = errors.New("answerable not found")
	ErrUnknownAnswerableType = errors.New("unknown answerable type")
	ErrInvalidReference      = errors.New("a reference is required")
)

const (
	LookupByID   = "id"
	LookupBySlug = "slug"
)

// NotFoundError is returned by the resolver when an id or slug matches no
// row. It unwraps to the kind's sentinel error.
type NotFoundError struct {
	Kind string // "section", "group", "question", "question type"
	By   string // LookupByID or LookupBySlug
	Ref  string
	err  error
}

func NewNotFoundError(sentinel error, kind, by, ref string) *NotFoundError {
	return &NotFoundError{Kind: kind, By: by, Ref: ref, err: sentinel}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with the given %s %q", e.Kind, e.By, e.Ref)
}

func (e *NotFoundError) Unwrap() error {
	return e.err
}

// IsNotFound reports whether err is any of the lookup failures.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, ErrAnswerableNotFound)
}
