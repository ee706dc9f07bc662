package repository

import (
	"context"
	"errors"
	"fmt"
	"interrogator/internal/model"
	"interrogator/internal/util"
	"sort"
	"strconv"

	"gorm.io/gorm"
)

type lookup struct {
	kind     string
	sentinel error
}

var (
	sectionLookup      = lookup{kind: "section", sentinel: util.ErrSectionNotFound}
	groupLookup        = lookup{kind: "group", sentinel: util.ErrGroupNotFound}
	questionLookup     = lookup{kind: "question", sentinel: util.ErrQuestionNotFound}
	questionTypeLookup = lookup{kind: "question type", sentinel: util.ErrQuestionTypeNotFound}
)

// resolve turns a reference into a record. A direct reference is returned
// untouched and an empty one resolves to nil.
func resolve[T any](ctx context.Context, db *gorm.DB, ref model.Ref[T], l lookup, withTrashed bool, preloads ...string) (*T, error) {
	if e, ok := ref.Entity(); ok {
		return e, nil
	}
	if ref.IsZero() {
		return nil, nil
	}

	q := db.WithContext(ctx)
	if withTrashed {
		q = q.Unscoped()
	}
	for _, p := range preloads {
		q = q.Preload(p)
	}

	var (
		out T
		by  string
		key string
		err error
	)
	if id, ok := ref.ID(); ok {
		by, key = util.LookupByID, strconv.FormatUint(uint64(id), 10)
		err = q.First(&out, id).Error
	} else {
		slug, _ := ref.Slug()
		by, key = util.LookupBySlug, slug
		err = q.Where("slug = ?", slug).First(&out).Error
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(l.sentinel, l.kind, by, key)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s %s: %w", l.kind, key, err)
	}
	return &out, nil
}

type ordered[T any] interface {
	*T
	Order() int
}

// sortByOrder sorts by the derived order, keeping the incoming (id) order
// for ties.
func sortByOrder[T any, PT ordered[T]](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return PT(&items[i]).Order() < PT(&items[j]).Order()
	})
}
