package service

import (
	"context"
	"interrogator/internal/model"
	"interrogator/internal/repository"
	"interrogator/internal/testutil"
	"testing"

	"gorm.io/gorm"
)

type stack struct {
	db       *gorm.DB
	svc      *Interrogator
	answers  *AnswerEngine
	search   *SearchService
	registry *AnswerableRegistry
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := testutil.DB(t)
	types := repository.NewQuestionTypeRepository(db, nil, 0)

	registry := NewAnswerableRegistry()
	for tag, loader := range BuiltinAnswerables {
		registry.Register(tag, loader)
	}

	return &stack{
		db:       db,
		svc:      NewInterrogator(db, types),
		answers:  NewAnswerEngine(db, registry),
		search:   NewSearchService(repository.NewAnswerRepository(db), repository.NewQuestionRepository(db), types),
		registry: registry,
	}
}

// tree creates a section attached to class with the given number of groups,
// each holding perGroup small text questions.
func (s *stack) tree(t *testing.T, class string, tenant model.Tenant, groups, perGroup int) (*model.Section, []*model.Group, []*model.Question) {
	t.Helper()
	ctx := context.Background()

	section, err := s.svc.CreateSection(ctx, SectionParams{Name: "Section 1", ClassName: class, Tenant: tenant})
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	var gs []*model.Group
	var qs []*model.Question
	for i := 0; i < groups; i++ {
		g, err := s.svc.CreateGroup(ctx, GroupParams{Name: "Group", Section: model.Of(section), Tenant: tenant})
		if err != nil {
			t.Fatalf("create group: %v", err)
		}
		gs = append(gs, g)
		for j := 0; j < perGroup; j++ {
			q, err := s.svc.CreateSmallTextQuestion(ctx, "Question", model.Of(g), nil)
			if err != nil {
				t.Fatalf("create question: %v", err)
			}
			qs = append(qs, q)
		}
	}
	return section, gs, qs
}

func (s *stack) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	return testutil.Count(t, s.db, m, false, "")
}

func (s *stack) seedUser(t *testing.T, tenant model.Tenant) *model.User {
	t.Helper()
	return testutil.SeedUser(t, s.db, "user", tenant.Column())
}

func (s *stack) seedClient(t *testing.T, tenant model.Tenant) *model.Client {
	t.Helper()
	return testutil.SeedClient(t, s.db, "client", tenant.Column())
}
