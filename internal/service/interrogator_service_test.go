package service

import (
	"context"
	"errors"
	"interrogator/internal/model"
	"interrogator/internal/util"
	"strings"
	"testing"
)

func TestResolverTotality(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, groups, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 1)

	s1, err := st.svc.GetSection(ctx, model.ByID[model.Section](section.ID))
	if err != nil {
		t.Fatal(err)
	}
	s2, err := st.svc.GetSection(ctx, model.BySlug[model.Section](section.Slug))
	if err != nil {
		t.Fatal(err)
	}
	if s1.ID != section.ID || s2.ID != section.ID {
		t.Fatalf("section lookups disagree")
	}

	g, err := st.svc.GetGroup(ctx, model.BySlug[model.Group](groups[0].Slug))
	if err != nil || g.ID != groups[0].ID {
		t.Fatalf("group by slug: %v", err)
	}
	q, err := st.svc.GetQuestion(ctx, model.BySlug[model.Question](questions[0].Slug))
	if err != nil || q.ID != questions[0].ID {
		t.Fatalf("question by slug: %v", err)
	}
	if q.TypeSlug() != model.SmallText {
		t.Fatalf("question type not attached")
	}

	if none, err := st.svc.GetSection(ctx, model.NoRef[model.Section]()); none != nil || err != nil {
		t.Fatalf("no reference should give nil, nil")
	}
}

func TestCreateSectionSyncsOptions(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()

	section, err := st.svc.CreateSection(ctx, SectionParams{
		Name:      "Profile",
		ClassName: model.UserAnswerableType,
		Options:   model.Options{model.OrderOptionKey: model.IntValue(2), "icon": model.StringValue("user")},
		Tenant:    model.TeamTenant(7),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored := reloadSection(t, st, section.ID)
	if stored.Order() != 2 || len(stored.GetOptions()) != 2 {
		t.Fatalf("options not stored: %v", stored.GetOptions())
	}
	if stored.Tenant() != model.TeamTenant(7) {
		t.Fatalf("tenant = %s", stored.Tenant())
	}
	if !stored.AppliesTo(model.UserAnswerableType) {
		t.Fatalf("class not stored")
	}
}

func TestUpdateRegeneratesSlugAndReplacesOptions(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()

	section, err := st.svc.CreateSection(ctx, SectionParams{
		Name:      "Old",
		ClassName: model.UserAnswerableType,
		Options:   model.Options{"a": model.IntValue(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	oldSlug := section.Slug

	name := "New name"
	class := model.ClientAnswerableType
	updated, err := st.svc.UpdateSection(ctx, model.BySlug[model.Section](oldSlug), SectionUpdate{
		Name:      &name,
		ClassName: &class,
		Options:   model.Options{"b": model.IntValue(2)},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug == oldSlug || updated.Name != name {
		t.Fatalf("slug not regenerated: %s", updated.Slug)
	}
	stored := reloadSection(t, st, section.ID)
	if !stored.AppliesTo(model.ClientAnswerableType) {
		t.Fatalf("class not updated")
	}
	if !stored.GetOptions().Equal(model.Options{"b": model.IntValue(2)}) {
		t.Fatalf("options = %v", stored.GetOptions())
	}

	if _, err := st.svc.GetSection(ctx, model.BySlug[model.Section](oldSlug)); !errors.Is(err, util.ErrSectionNotFound) {
		t.Fatalf("old slug should be gone, got %v", err)
	}

	// no options clears the bag
	if _, err := st.svc.UpdateSection(ctx, model.ByID[model.Section](section.ID), SectionUpdate{}); err != nil {
		t.Fatal(err)
	}
	if got := reloadSection(t, st, section.ID).GetOptions(); len(got) != 0 {
		t.Fatalf("options should be cleared, got %v", got)
	}
}

func TestUpdateMovesGroupAndQuestion(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, groups, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 1)
	other, otherGroups, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 0)

	g, err := st.svc.UpdateGroup(ctx, model.Of(groups[0]), GroupUpdate{Section: model.ByID[model.Section](other.ID)})
	if err != nil {
		t.Fatalf("update group: %v", err)
	}
	if g.SectionID != other.ID {
		t.Fatalf("group not moved")
	}

	q, err := st.svc.UpdateQuestion(ctx, model.ByID[model.Question](questions[0].ID), QuestionUpdate{Group: model.Of(otherGroups[0])})
	if err != nil {
		t.Fatalf("update question: %v", err)
	}
	if q.GroupID != otherGroups[0].ID {
		t.Fatalf("question not moved")
	}

	_, err = st.svc.UpdateQuestion(ctx, model.BySlug[model.Question]("missing"), QuestionUpdate{})
	if !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestMissingReferencesAreRejected(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()

	_, err := st.svc.CreateGroup(ctx, GroupParams{Name: "orphan"})
	if !errors.Is(err, util.ErrInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	_, groups, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 0)
	_, err = st.svc.CreateQuestion(ctx, QuestionParams{Name: "untyped", Group: model.Of(groups[0])})
	if !errors.Is(err, util.ErrInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	_, err = st.svc.CreateQuestion(ctx, QuestionParams{Name: "bad type", Group: model.Of(groups[0]), Type: model.BySlug[model.QuestionType]("essay")})
	if !errors.Is(err, util.ErrQuestionTypeNotFound) {
		t.Fatalf("expected question type not found, got %v", err)
	}
}

func TestMultipleChoiceQuestion(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, groups, _ := st.tree(t, model.UserAnswerableType, model.TeamTenant(3), 1, 0)

	q, err := st.svc.CreateMultipleChoiceQuestion(ctx, "Colour", model.Of(groups[0]), []string{"red", "blue"}, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.Tenant() != model.TeamTenant(3) {
		t.Fatalf("question should inherit the group's tenant, got %s", q.Tenant())
	}

	q, err = st.svc.AddChoices(ctx, model.ByID[model.Question](q.ID), "green")
	if err != nil {
		t.Fatalf("add choices: %v", err)
	}

	stored, err := st.svc.GetQuestion(ctx, model.ByID[model.Question](q.ID))
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Choices) != 3 || stored.Choices[2] != "green" {
		t.Fatalf("choices = %v", stored.Choices)
	}
	if !stored.AllowsOther || stored.TypeSlug() != model.MultipleChoice {
		t.Fatalf("flag or type lost: %+v", stored)
	}

	// the flag cannot be cleared through the generic option path
	if _, err := st.svc.UnsetOptionOnQuestion(ctx, model.Of(stored), model.AllowsOtherOptionKey); err != nil {
		t.Fatal(err)
	}
	if _, err := st.svc.SetOptionOnQuestion(ctx, model.Of(stored), model.AllowsOtherOptionKey, model.BoolValue(false)); err != nil {
		t.Fatal(err)
	}
	stored, _ = st.svc.GetQuestion(ctx, model.ByID[model.Question](q.ID))
	if !stored.AllowsOther {
		t.Fatalf("generic path changed the flag")
	}
	if _, ok := stored.GetOptions()[model.AllowsOtherOptionKey]; ok {
		t.Fatalf("flag leaked into options")
	}

	if _, err := st.svc.SetAllowsMultipleChoiceOther(ctx, model.Of(stored), false); err != nil {
		t.Fatal(err)
	}
	stored, _ = st.svc.GetQuestion(ctx, model.ByID[model.Question](q.ID))
	if stored.AllowsOther {
		t.Fatalf("flag should be cleared")
	}
}

func TestTypedFactories(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, groups, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 1, 0)
	g := model.Of(groups[0])

	factories := map[string]func(context.Context, string, model.GroupRef, model.Options) (*model.Question, error){
		model.SmallText:  st.svc.CreateSmallTextQuestion,
		model.LargeText:  st.svc.CreateLargeTextQuestion,
		model.Numeric:    st.svc.CreateNumericQuestion,
		model.DateTime:   st.svc.CreateDateTimeQuestion,
		model.FileUpload: st.svc.CreateFileUploadQuestion,
	}
	for slug, create := range factories {
		q, err := create(ctx, "Q "+slug, g, model.Options{"hint": model.StringValue(slug)})
		if err != nil {
			t.Fatalf("%s: %v", slug, err)
		}
		if q.TypeSlug() != slug {
			t.Fatalf("%s: got type %s", slug, q.TypeSlug())
		}
		if h, _ := q.GetOptions()["hint"].AsString(); h != slug {
			t.Fatalf("%s: options not synced", slug)
		}
	}

	qs, err := st.svc.GetQuestions(ctx, model.BySlug[model.QuestionType](model.Numeric), model.NoRef[model.Group](), model.GlobalTenant)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].TypeSlug() != model.Numeric {
		t.Fatalf("type filter returned %d questions", len(qs))
	}
}

func TestListsAreTenantScopedAndOrdered(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()

	mk := func(name string, order int, tenant model.Tenant) *model.Section {
		s, err := st.svc.CreateSection(ctx, SectionParams{
			Name:      name,
			ClassName: model.UserAnswerableType,
			Options:   model.Options{model.OrderOptionKey: model.IntValue(order)},
			Tenant:    tenant,
		})
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	late := mk("late", 9, model.GlobalTenant)
	early := mk("early", 0, model.GlobalTenant)
	mk("team", 1, model.TeamTenant(1))
	if _, err := st.svc.CreateSection(ctx, SectionParams{Name: "client", ClassName: model.ClientAnswerableType}); err != nil {
		t.Fatal(err)
	}

	global, err := st.svc.GetSections(ctx, model.UserAnswerableType, model.GlobalTenant)
	if err != nil {
		t.Fatal(err)
	}
	if len(global) != 2 || global[0].ID != early.ID || global[1].ID != late.ID {
		t.Fatalf("global user sections = %+v", global)
	}

	all, err := st.svc.GetSections(ctx, "", model.GlobalTenant)
	if err != nil || len(all) != 3 {
		t.Fatalf("all global sections: %d %v", len(all), err)
	}

	team, err := st.svc.GetSections(ctx, "", model.TeamTenant(1))
	if err != nil || len(team) != 1 {
		t.Fatalf("team sections: %d %v", len(team), err)
	}

	groups, err := st.svc.GetGroups(ctx, model.Of(late), model.GlobalTenant)
	if err != nil || len(groups) != 0 {
		t.Fatalf("groups of an empty section: %d %v", len(groups), err)
	}
}

func TestCopySection(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, groups, _ := st.tree(t, model.UserAnswerableType, model.TeamTenant(2), 2, 2)

	if _, err := st.svc.SetOptionOnSection(ctx, model.Of(section), "color", model.StringValue("blue")); err != nil {
		t.Fatal(err)
	}
	mc, err := st.svc.CreateMultipleChoiceQuestion(ctx, "Pick", model.Of(groups[0]), []string{"x", "y"}, true)
	if err != nil {
		t.Fatal(err)
	}
	user := st.seedUser(t, model.TeamTenant(2))
	if _, err := st.answers.For(user).AnswerQuestion(ctx, model.Of(mc), "x"); err != nil {
		t.Fatal(err)
	}

	copied, err := st.svc.CopySection(ctx, model.Of(section), model.ClientAnswerableType)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.ID == section.ID || copied.Slug == section.Slug {
		t.Fatalf("copy should be a new row")
	}
	if !copied.AppliesTo(model.ClientAnswerableType) || copied.Tenant() != model.TeamTenant(2) {
		t.Fatalf("copy target wrong: %+v", copied)
	}
	if c, _ := copied.GetOptions()["color"].AsString(); c != "blue" {
		t.Fatalf("section options not copied")
	}

	copiedGroups, err := st.svc.GetGroups(ctx, model.Of(copied), model.TeamTenant(2))
	if err != nil || len(copiedGroups) != 2 {
		t.Fatalf("copied groups: %d %v", len(copiedGroups), err)
	}
	var total int
	var copiedMC *model.Question
	for _, g := range copiedGroups {
		qs, err := st.svc.GetQuestions(ctx, model.NoRef[model.QuestionType](), model.ByID[model.Group](g.ID), model.TeamTenant(2))
		if err != nil {
			t.Fatal(err)
		}
		total += len(qs)
		for i := range qs {
			if qs[i].TypeSlug() == model.MultipleChoice {
				copiedMC = &qs[i]
			}
		}
	}
	if total != 5 {
		t.Fatalf("copied %d questions, want 5", total)
	}
	if copiedMC == nil || len(copiedMC.Choices) != 2 || !copiedMC.AllowsOther {
		t.Fatalf("multiple choice question not copied faithfully: %+v", copiedMC)
	}

	answers := st.count(t, &model.Answer{})
	if answers != 1 {
		t.Fatalf("answers must not be copied, have %d", answers)
	}
}

func TestCopyQuestionIntoAnotherGroup(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	_, groups, questions := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 2, 1)

	if _, err := st.svc.SetOptionOnQuestion(ctx, model.Of(questions[0]), "max", model.IntValue(10)); err != nil {
		t.Fatal(err)
	}
	copied, err := st.svc.CopyQuestion(ctx, model.Of(questions[0]), model.Of(groups[1]))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.GroupID != groups[1].ID || copied.QuestionTypeID != questions[0].QuestionTypeID {
		t.Fatalf("copy landed wrong: %+v", copied)
	}
	if n, _ := copied.GetOptions()["max"].AsNumber(); n != 10 {
		t.Fatalf("options not copied")
	}

	copiedGroup, err := st.svc.CopyGroup(ctx, model.Of(groups[1]), model.ByID[model.Section](groups[0].SectionID))
	if err != nil {
		t.Fatalf("copy group: %v", err)
	}
	qs, err := st.svc.GetQuestions(ctx, model.NoRef[model.QuestionType](), model.Of(copiedGroup), model.GlobalTenant)
	if err != nil || len(qs) != 2 {
		t.Fatalf("copied group has %d questions, %v", len(qs), err)
	}
}

func TestDetachSection(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	section, _, _ := st.tree(t, model.UserAnswerableType, model.GlobalTenant, 0, 0)

	detached, err := st.svc.DetachSection(ctx, model.BySlug[model.Section](section.Slug))
	if err != nil {
		t.Fatal(err)
	}
	if detached.ClassName != nil || reloadSection(t, st, section.ID).ClassName != nil {
		t.Fatalf("class name not cleared")
	}
	sections, err := st.svc.GetSections(ctx, model.UserAnswerableType, model.GlobalTenant)
	if err != nil || len(sections) != 0 {
		t.Fatalf("detached section still listed: %d %v", len(sections), err)
	}
}

func TestNonLatinNamesStayResolvable(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		section, err := st.svc.CreateSection(ctx, SectionParams{Name: "Опрос", ClassName: model.UserAnswerableType})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(section.Slug, "opros_") {
			t.Fatalf("slug %q does not carry the name", section.Slug)
		}
		got, err := st.svc.GetSection(ctx, model.ParseRef[model.Section](section.Slug))
		if err != nil {
			t.Fatalf("slug %q not resolvable: %v", section.Slug, err)
		}
		if got.ID != section.ID {
			t.Fatalf("slug %q resolved section %d, want %d", section.Slug, got.ID, section.ID)
		}
	}
}
