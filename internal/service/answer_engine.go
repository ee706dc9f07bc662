package service

import (
	"context"
	"errors"
	"fmt"
	"interrogator/internal/model"
	"interrogator/internal/repository"
	"interrogator/internal/util"
	"interrogator/pkg/logger"
	"interrogator/pkg/monitoring"
	"interrogator/pkg/tracing"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnswerableLoader loads one host entity of a registered type.
type AnswerableLoader func(ctx context.Context, db *gorm.DB, id uint) (model.Answerable, error)

// ModelLoader builds a loader for a gorm model implementing model.Answerable.
func ModelLoader[T any, PT interface {
	*T
	model.Answerable
}]() AnswerableLoader {
	return func(ctx context.Context, db *gorm.DB, id uint) (model.Answerable, error) {
		var entity T
		err := db.WithContext(ctx).First(&entity, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %d", util.ErrAnswerableNotFound, PT(&entity).AnswerableType(), id)
		}
		if err != nil {
			return nil, err
		}
		return PT(&entity), nil
	}
}

// BuiltinAnswerables are the host types shipped with the service, keyed by
// type tag.
var BuiltinAnswerables = map[string]AnswerableLoader{
	model.UserAnswerableType:   ModelLoader[model.User](),
	model.ClientAnswerableType: ModelLoader[model.Client](),
}

// AnswerableRegistry maps answerable type tags to their loaders.
type AnswerableRegistry struct {
	mu      sync.RWMutex
	loaders map[string]AnswerableLoader
}

func NewAnswerableRegistry() *AnswerableRegistry {
	return &AnswerableRegistry{loaders: make(map[string]AnswerableLoader)}
}

func (r *AnswerableRegistry) Register(answerableType string, loader AnswerableLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[answerableType] = loader
}

// Types returns the registered type tags in lexical order.
func (r *AnswerableRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.loaders))
	for t := range r.loaders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (r *AnswerableRegistry) Load(ctx context.Context, db *gorm.DB, ref model.AnswerableRef) (model.Answerable, error) {
	r.mu.RLock()
	loader, ok := r.loaders[ref.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownAnswerableType, ref.Type)
	}
	return loader(ctx, db, ref.ID)
}

// AnswerEngine binds answerable host entities to questions.
type AnswerEngine struct {
	DB        *gorm.DB
	Sections  *repository.SectionRepository
	Questions *repository.QuestionRepository
	Answers   *repository.AnswerRepository
	Registry  *AnswerableRegistry
}

func NewAnswerEngine(db *gorm.DB, registry *AnswerableRegistry) *AnswerEngine {
	return &AnswerEngine{
		DB:        db,
		Sections:  repository.NewSectionRepository(db),
		Questions: repository.NewQuestionRepository(db),
		Answers:   repository.NewAnswerRepository(db),
		Registry:  registry,
	}
}

// Load fetches a host entity through the registry.
func (e *AnswerEngine) Load(ctx context.Context, answerableType string, id uint) (model.Answerable, error) {
	return e.Registry.Load(ctx, e.DB, model.AnswerableRef{Type: answerableType, ID: id})
}

// For returns the answer operations of one host entity.
func (e *AnswerEngine) For(entity model.Answerable) *Interrogated {
	return &Interrogated{engine: e, entity: entity}
}

// Interrogated is a host entity seen through the answer engine.
type Interrogated struct {
	engine *AnswerEngine
	entity model.Answerable
}

func (i *Interrogated) Entity() model.Answerable {
	return i.entity
}

// Answers returns the entity's live answers within its tenant.
func (i *Interrogated) Answers(ctx context.Context) ([]model.Answer, error) {
	return i.engine.Answers.ListByOwner(ctx, model.RefOf(i.entity), i.entity.Tenant())
}

// Sections returns the tenant's sections attached to the entity's type.
func (i *Interrogated) Sections(ctx context.Context) ([]model.Section, error) {
	return i.engine.Sections.List(ctx, i.entity.AnswerableType(), i.entity.Tenant())
}

// GetAnswerFromQuestion returns the entity's live answer to the question, or
// nil when there is none. Questions outside the sections attached to the
// entity's type always yield nil.
func (i *Interrogated) GetAnswerFromQuestion(ctx context.Context, ref model.QuestionRef) (*model.Answer, error) {
	question, err := i.question(ctx, ref)
	if err != nil {
		return nil, err
	}
	return i.answerTo(ctx, question)
}

func (i *Interrogated) answerTo(ctx context.Context, question *model.Question) (*model.Answer, error) {
	if err := i.engine.Questions.LoadSection(ctx, question); err != nil {
		return nil, err
	}
	if question.Group == nil || question.Group.Section == nil || !question.Group.Section.AppliesTo(i.entity.AnswerableType()) {
		return nil, nil
	}
	return i.engine.Answers.FindLive(ctx, question.ID, model.RefOf(i.entity), i.entity.Tenant())
}

// AnswerQuestion records value as the entity's answer. An existing answer is
// only rewritten when the stored text differs; the entity is touched either
// way.
func (i *Interrogated) AnswerQuestion(ctx context.Context, ref model.QuestionRef, value interface{}) (answer *model.Answer, err error) {
	ctx, span := tracing.Start(ctx, "answers.AnswerQuestion")
	defer func() { tracing.End(span, err) }()

	text, err := util.StringValue(value)
	if err != nil {
		return nil, fmt.Errorf("answer value: %w", err)
	}
	question, err := i.question(ctx, ref)
	if err != nil {
		return nil, err
	}

	owner := model.RefOf(i.entity)
	tenant := i.entity.Tenant()
	outcome := "unchanged"

	err = i.engine.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := i.engine.Answers.WithTx(tx)

		existing, err := answers.FindLive(ctx, question.ID, owner, tenant)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			answer = &model.Answer{
				QuestionID:     question.ID,
				AnswerableType: owner.Type,
				AnswerableID:   owner.ID,
				Value:          text,
				TeamID:         tenant.Column(),
			}
			answer.PutOptions(model.Options{})
			if err := answers.Create(ctx, answer); err != nil {
				return err
			}
			outcome = "created"
		case existing.Value != text:
			if err := answers.UpdateValue(ctx, existing, text); err != nil {
				return err
			}
			answer = existing
			outcome = "updated"
		default:
			answer = existing
		}

		return i.entity.Touch(tx.WithContext(ctx))
	})
	if err != nil {
		return nil, err
	}

	monitoring.AnswerWrites.WithLabelValues(outcome).Inc()
	logger.Log.Debug("question answered",
		zap.String("answerable_type", owner.Type),
		zap.Uint("answerable_id", owner.ID),
		zap.Uint("question_id", question.ID),
		zap.String("outcome", outcome))
	return answer, nil
}

func (i *Interrogated) question(ctx context.Context, ref model.QuestionRef) (*model.Question, error) {
	if ref.IsZero() {
		return nil, missing("question")
	}
	return i.engine.Questions.Resolve(ctx, ref, false)
}
