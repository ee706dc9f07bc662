package service

import (
	"context"
	"errors"
	"interrogator/internal/model"
	"interrogator/internal/repository"
	"interrogator/internal/testutil"
	"interrogator/internal/util"
	"testing"
	"time"
)

func answerAll(t *testing.T, st *stack, user *model.User, questions []*model.Question) {
	t.Helper()
	for _, q := range questions {
		if _, err := st.answers.For(user).AnswerQuestion(context.Background(), model.Of(q), "yes"); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
}

func TestDeleteSectionCascades(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	const groups, perGroup = 2, 3
	section, _, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, groups, perGroup)
	answerAll(t, st, st.seedUser(t, model.GlobalTenant), questions)

	res, err := st.svc.DeleteSection(ctx, model.Of(section))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.Sections != 1 || res.Groups != groups || res.Questions != groups*perGroup || res.Answers != groups*perGroup {
		t.Fatalf("cascade counts = %+v", res)
	}
	if res.Total() != 1+groups+2*groups*perGroup {
		t.Fatalf("total = %d", res.Total())
	}
	if res.Batch == "" {
		t.Fatalf("cascade has no batch")
	}

	for _, m := range []interface{}{&model.Section{}, &model.Group{}, &model.Question{}, &model.Answer{}} {
		if n := st.count(t, m); n != 0 {
			t.Fatalf("%T still has %d live rows", m, n)
		}
	}
	if n := testutil.Count(t, st.db, &model.Answer{}, true, "delete_batch = ?", res.Batch); n != groups*perGroup {
		t.Fatalf("answers tagged with the batch = %d", n)
	}

	if _, err := st.svc.GetSection(ctx, model.ByID[model.Section](section.ID)); !errors.Is(err, util.ErrSectionNotFound) {
		t.Fatalf("deleted section still resolvable: %v", err)
	}
}

func TestRestoreSectionRestoresTheBatch(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, groups, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 2, 2)
	answerAll(t, st, st.seedUser(t, model.GlobalTenant), questions)

	// deleted on its own before the section goes
	own, err := st.svc.DeleteQuestion(ctx, model.Of(questions[0]))
	if err != nil {
		t.Fatal(err)
	}
	if own.Questions != 1 || own.Answers != 1 {
		t.Fatalf("question cascade = %+v", own)
	}

	if _, err := st.svc.DeleteSection(ctx, model.Of(section)); err != nil {
		t.Fatal(err)
	}

	restored, res, err := st.svc.RestoreSection(ctx, model.ByID[model.Section](section.ID))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.DeletedAt.Valid || restored.DeleteBatch != "" {
		t.Fatalf("restored section still marked deleted")
	}
	if res.Sections != 1 || res.Groups != 2 || res.Questions != 3 || res.Answers != 3 {
		t.Fatalf("restore counts = %+v", res)
	}

	if n := st.count(t, &model.Question{}); n != 3 {
		t.Fatalf("live questions = %d", n)
	}
	if _, err := st.svc.GetQuestion(ctx, model.ByID[model.Question](questions[0].ID)); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("independently deleted question came back: %v", err)
	}
	if _, err := st.svc.GetGroup(ctx, model.Of(groups[1])); err != nil {
		t.Fatalf("group not restored: %v", err)
	}

	// the independently deleted question can still be restored on its own
	_, res, err = st.svc.RestoreQuestion(ctx, model.ByID[model.Question](questions[0].ID))
	if err != nil {
		t.Fatal(err)
	}
	if res.Questions != 1 || res.Answers != 1 {
		t.Fatalf("question restore = %+v", res)
	}
}

func TestRestoreLiveEntityIsNoop(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, groups, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 1)

	_, res, err := st.svc.RestoreGroup(ctx, model.Of(groups[0]))
	if err != nil {
		t.Fatal(err)
	}
	if res.Total() != 0 {
		t.Fatalf("restoring a live group touched %d rows", res.Total())
	}
}

func TestDeleteGroupLeavesSiblings(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, groups, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 2, 2)

	res, err := st.svc.DeleteGroup(ctx, model.Of(groups[0]))
	if err != nil {
		t.Fatal(err)
	}
	if res.Sections != 0 || res.Groups != 1 || res.Questions != 2 {
		t.Fatalf("group cascade = %+v", res)
	}
	if n := st.count(t, &model.Question{}); n != 2 {
		t.Fatalf("sibling questions lost, live = %d", n)
	}
}

func TestRestoreFallsBackToDeletionWindow(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, _, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 2)

	if _, err := st.svc.DeleteSection(ctx, model.Of(section)); err != nil {
		t.Fatal(err)
	}
	// rows deleted before batches existed carry only a timestamp
	for _, table := range []string{"sections", "groups", "questions"} {
		if err := st.db.Exec("UPDATE " + table + " SET delete_batch = ''").Error; err != nil {
			t.Fatal(err)
		}
	}

	_, res, err := st.svc.RestoreSection(ctx, model.ByID[model.Section](section.ID))
	if err != nil {
		t.Fatal(err)
	}
	if res.Groups != 1 || res.Questions != 2 {
		t.Fatalf("window restore = %+v", res)
	}
}

func TestRestoreWindowExcludesUnrelatedDeletions(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, groups, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 4, 1)

	if _, err := st.svc.DeleteSection(ctx, model.Of(section)); err != nil {
		t.Fatal(err)
	}
	base := time.Now().UTC().Truncate(time.Second)
	stamp := func(m interface{}, id uint, at time.Time) {
		t.Helper()
		err := st.db.Unscoped().Model(m).Where("id = ?", id).
			Updates(map[string]interface{}{"deleted_at": at, "delete_batch": ""}).Error
		if err != nil {
			t.Fatal(err)
		}
	}
	stamp(&model.Section{}, section.ID, base)
	offsets := []time.Duration{0, -time.Second, time.Second, 2 * time.Second}
	for i, g := range groups {
		stamp(&model.Group{}, g.ID, base.Add(offsets[i]))
		stamp(&model.Question{}, questions[i].ID, base.Add(offsets[i]))
	}

	_, res, err := st.svc.RestoreSection(ctx, model.ByID[model.Section](section.ID))
	if err != nil {
		t.Fatal(err)
	}
	if res.Groups != 2 || res.Questions != 2 {
		t.Fatalf("window restore = %+v, want the two groups inside the window", res)
	}
	for i, g := range groups {
		_, err := st.svc.GetGroup(ctx, model.ByID[model.Group](g.ID))
		inside := offsets[i] >= 0 && offsets[i] <= repository.RestoreWindow
		if inside && err != nil {
			t.Fatalf("group at %v not restored: %v", offsets[i], err)
		}
		if !inside && !errors.Is(err, util.ErrGroupNotFound) {
			t.Fatalf("group at %v restored, err = %v", offsets[i], err)
		}
	}
}
