package service

import (
	"context"
	"errors"
	"interrogator/internal/model"
	"interrogator/internal/util"
	"testing"
	"time"
)

func TestAnswerQuestionLifecycle(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, _, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 1)
	user := st.seedUser(t, model.GlobalTenant)
	subject := st.answers.For(user)
	q := model.Of(questions[0])

	first, err := subject.AnswerQuestion(ctx, q, "X")
	if err != nil {
		t.Fatalf("first answer: %v", err)
	}
	var before, after model.Answer
	st.db.First(&before, first.ID)
	again, err := subject.AnswerQuestion(ctx, q, "X")
	if err != nil {
		t.Fatal(err)
	}
	st.db.First(&after, first.ID)
	if again.ID != first.ID || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("same value should leave the answer untouched")
	}

	changed, err := subject.AnswerQuestion(ctx, q, "Y")
	if err != nil {
		t.Fatal(err)
	}
	if changed.ID != first.ID || changed.Value != "Y" {
		t.Fatalf("answer not rewritten in place: %+v", changed)
	}

	if n := st.count(t, &model.Answer{}); n != 1 {
		t.Fatalf("live answers = %d, want 1", n)
	}

	got, err := subject.GetAnswerFromQuestion(ctx, model.BySlug[model.Question](questions[0].Slug))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Value != "Y" {
		t.Fatalf("read back %+v", got)
	}
}

func TestAnswerValueConversion(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, _, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 3)
	subject := st.answers.For(st.seedUser(t, model.GlobalTenant))

	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		value interface{}
		want  string
	}{
		{42, "42"},
		{true, "true"},
		{when, "2024-05-01T12:00:00Z"},
	}
	for i, c := range cases {
		a, err := subject.AnswerQuestion(ctx, model.Of(questions[i]), c.value)
		if err != nil {
			t.Fatalf("%v: %v", c.value, err)
		}
		if a.Value != c.want {
			t.Fatalf("%v stored as %q, want %q", c.value, a.Value, c.want)
		}
	}
}

func TestAnswerTouchesTheEntity(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, _, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 1)
	user := st.seedUser(t, model.GlobalTenant)

	past := time.Now().Add(-time.Hour).UTC()
	if err := st.db.Model(&model.User{}).Where("id = ?", user.ID).UpdateColumn("updated_at", past).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := st.answers.For(user).AnswerQuestion(ctx, model.Of(questions[0]), "x"); err != nil {
		t.Fatal(err)
	}
	var reloaded model.User
	if err := st.db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !reloaded.UpdatedAt.After(past.Add(time.Minute)) {
		t.Fatalf("updated_at not refreshed: %v", reloaded.UpdatedAt)
	}
}

func TestAnswersAreInvisibleOutsideTheEntityType(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, _, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 1)
	subject := st.answers.For(st.seedUser(t, model.GlobalTenant))

	if _, err := subject.AnswerQuestion(ctx, model.Of(questions[0]), "kept"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.svc.DetachSection(ctx, model.Of(section)); err != nil {
		t.Fatal(err)
	}

	got, err := subject.GetAnswerFromQuestion(ctx, model.Of(questions[0]))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("detached section still yields an answer")
	}

	// answering again must not create a second live row
	if _, err := subject.AnswerQuestion(ctx, model.Of(questions[0]), "kept"); err != nil {
		t.Fatal(err)
	}
	if n := st.count(t, &model.Answer{}); n != 1 {
		t.Fatalf("live answers = %d", n)
	}

	sections, err := subject.Sections(ctx)
	if err != nil || len(sections) != 0 {
		t.Fatalf("sections = %d %v", len(sections), err)
	}
}

func TestAnswersAreTenantScoped(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, _, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 1)
	user := st.seedUser(t, model.TeamTenant(1))
	q := model.Of(questions[0])

	if _, err := st.answers.For(user).AnswerQuestion(ctx, q, "team one"); err != nil {
		t.Fatal(err)
	}

	// same host switched to another team sees nothing and writes its own row
	moved := *user
	moved.CurrentTeamID = model.TeamTenant(2).Column()
	other := st.answers.For(&moved)
	if got, err := other.GetAnswerFromQuestion(ctx, q); err != nil || got != nil {
		t.Fatalf("answer leaked across tenants: %+v %v", got, err)
	}
	if _, err := other.AnswerQuestion(ctx, q, "team two"); err != nil {
		t.Fatal(err)
	}
	if n := st.count(t, &model.Answer{}); n != 2 {
		t.Fatalf("live answers = %d, want one per tenant", n)
	}

	answers, err := st.answers.For(user).Answers(ctx)
	if err != nil || len(answers) != 1 || answers[0].Value != "team one" {
		t.Fatalf("team one answers = %+v %v", answers, err)
	}
}

func TestAnswerRequiresQuestion(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	subject := st.answers.For(st.seedClient(t, model.GlobalTenant))

	if _, err := subject.AnswerQuestion(ctx, model.NoRef[model.Question](), "x"); !errors.Is(err, util.ErrInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	if _, err := subject.AnswerQuestion(ctx, model.BySlug[model.Question]("nope"), "x"); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	client := st.seedClient(t, model.GlobalTenant)

	if got := st.registry.Types(); len(got) != 2 || got[0] != model.ClientAnswerableType {
		t.Fatalf("types = %v", got)
	}

	loaded, err := st.answers.Load(ctx, model.ClientAnswerableType, client.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.AnswerableID() != client.ID || loaded.AnswerableType() != model.ClientAnswerableType {
		t.Fatalf("loaded %+v", loaded)
	}

	if _, err := st.answers.Load(ctx, "robot", 1); !errors.Is(err, util.ErrUnknownAnswerableType) {
		t.Fatalf("expected unknown type, got %v", err)
	}
	if _, err := st.answers.Load(ctx, model.UserAnswerableType, 999); !errors.Is(err, util.ErrAnswerableNotFound) {
		t.Fatalf("expected answerable not found, got %v", err)
	}
}
