package service

import (
	"context"
	"fmt"
	"interrogator/internal/model"
	"interrogator/internal/repository"
	"interrogator/internal/util"
	"interrogator/pkg/logger"
	"interrogator/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SectionParams struct {
	Name string
	// ClassName is the answerable type the section applies to. Empty
	// creates a detached section.
	ClassName string
	Options   model.Options
	Tenant    model.Tenant
}

type SectionUpdate struct {
	Name      *string
	ClassName *string
	// Options replaces the whole bag; nil clears it.
	Options model.Options
}

type GroupParams struct {
	Name    string
	Section model.SectionRef
	Options model.Options
	Tenant  model.Tenant
}

type GroupUpdate struct {
	Name    *string
	Section model.SectionRef
	Options model.Options
}

type QuestionParams struct {
	Name    string
	Type    model.QuestionTypeRef
	Group   model.GroupRef
	Options model.Options
	Choices []string
	Tenant  model.Tenant
}

type QuestionUpdate struct {
	Name    *string
	Group   model.GroupRef
	Options model.Options
}

// Interrogator manages the section, group and question hierarchy.
type Interrogator struct {
	DB        *gorm.DB
	Sections  *repository.SectionRepository
	Groups    *repository.GroupRepository
	Questions *repository.QuestionRepository
	Types     *repository.QuestionTypeRepository
	Options   *OptionsSynchronizer
	Cascade   *CascadeService
}

func NewInterrogator(db *gorm.DB, types *repository.QuestionTypeRepository) *Interrogator {
	return &Interrogator{
		DB:        db,
		Sections:  repository.NewSectionRepository(db),
		Groups:    repository.NewGroupRepository(db),
		Questions: repository.NewQuestionRepository(db),
		Types:     types,
		Options:   NewOptionsSynchronizer(db),
		Cascade:   NewCascadeService(db),
	}
}

func (s *Interrogator) withTx(tx *gorm.DB) *Interrogator {
	return &Interrogator{
		DB:        tx,
		Sections:  s.Sections.WithTx(tx),
		Groups:    s.Groups.WithTx(tx),
		Questions: s.Questions.WithTx(tx),
		Types:     s.Types.WithTx(tx),
		Options:   s.Options.WithTx(tx),
		Cascade:   s.Cascade,
	}
}

func (s *Interrogator) transaction(ctx context.Context, fn func(tx *Interrogator) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.withTx(tx))
	})
}

func missing(kind string) error {
	return fmt.Errorf("%w: %s", util.ErrInvalidReference, kind)
}

func classColumn(className string) *string {
	if className == "" {
		return nil
	}
	return &className
}

// Sections

func (s *Interrogator) CreateSection(ctx context.Context, p SectionParams) (section *model.Section, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.CreateSection")
	defer func() { tracing.End(span, err) }()

	section = &model.Section{
		Name:      p.Name,
		Slug:      util.NewSlug(p.Name),
		ClassName: classColumn(p.ClassName),
		TeamID:    p.Tenant.Column(),
	}
	section.PutOptions(model.Options{})

	err = s.transaction(ctx, func(tx *Interrogator) error {
		if err := tx.Sections.Create(ctx, section); err != nil {
			return err
		}
		return tx.Options.Sync(ctx, section, p.Options)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("section created", zap.Uint("id", section.ID), zap.String("slug", section.Slug))
	return section, nil
}

func (s *Interrogator) UpdateSection(ctx context.Context, ref model.SectionRef, u SectionUpdate) (*model.Section, error) {
	section, err := s.requireSection(ctx, ref)
	if err != nil {
		return nil, err
	}

	if u.Name != nil {
		section.Name = *u.Name
		section.Slug = util.NewSlug(*u.Name)
	}
	if u.ClassName != nil {
		section.ClassName = classColumn(*u.ClassName)
	}

	err = s.transaction(ctx, func(tx *Interrogator) error {
		if err := tx.Sections.Save(ctx, section); err != nil {
			return err
		}
		return tx.Options.Sync(ctx, section, u.Options)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("section updated", zap.Uint("id", section.ID), zap.String("slug", section.Slug))
	return section, nil
}

// CopySection clones the section with all its groups and questions under a
// new answerable type. Answers are never copied.
func (s *Interrogator) CopySection(ctx context.Context, ref model.SectionRef, targetClass string) (copied *model.Section, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.CopySection")
	defer func() { tracing.End(span, err) }()

	source, err := s.requireSection(ctx, ref)
	if err != nil {
		return nil, err
	}

	err = s.transaction(ctx, func(tx *Interrogator) error {
		copied, err = tx.CreateSection(ctx, SectionParams{
			Name:      source.Name,
			ClassName: targetClass,
			Options:   source.GetOptions(),
			Tenant:    source.Tenant(),
		})
		if err != nil {
			return err
		}
		groups, err := tx.Groups.ListBySection(ctx, source.ID)
		if err != nil {
			return err
		}
		for i := range groups {
			if _, err := tx.copyGroup(ctx, &groups[i], copied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func (s *Interrogator) SetOptionOnSection(ctx context.Context, ref model.SectionRef, key string, value model.Value) (*model.Section, error) {
	section, err := s.requireSection(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.Options.SetOption(ctx, section, key, value); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *Interrogator) UnsetOptionOnSection(ctx context.Context, ref model.SectionRef, key string) (*model.Section, error) {
	section, err := s.requireSection(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.Options.UnsetOption(ctx, section, key); err != nil {
		return nil, err
	}
	return section, nil
}

// DetachSection clears the section's answerable type, hiding it from every
// answerable.
func (s *Interrogator) DetachSection(ctx context.Context, ref model.SectionRef) (*model.Section, error) {
	section, err := s.requireSection(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.Sections.SetClassName(ctx, section, nil); err != nil {
		return nil, err
	}
	logger.Log.Debug("section detached", zap.Uint("id", section.ID))
	return section, nil
}

func (s *Interrogator) DeleteSection(ctx context.Context, ref model.SectionRef) (res *CascadeResult, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.DeleteSection")
	defer func() { tracing.End(span, err) }()

	section, err := s.requireSection(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.Cascade.DeleteSection(ctx, section)
}

func (s *Interrogator) RestoreSection(ctx context.Context, ref model.SectionRef) (section *model.Section, res *CascadeResult, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.RestoreSection")
	defer func() { tracing.End(span, err) }()

	if ref.IsZero() {
		return nil, nil, missing("section")
	}
	section, err = s.Sections.Resolve(ctx, ref, true)
	if err != nil {
		return nil, nil, err
	}
	res, err = s.Cascade.RestoreSection(ctx, section)
	if err != nil {
		return nil, nil, err
	}
	section.DeletedAt = gorm.DeletedAt{}
	section.DeleteBatch = ""
	return section, res, nil
}

func (s *Interrogator) GetSection(ctx context.Context, ref model.SectionRef) (*model.Section, error) {
	return s.Sections.Resolve(ctx, ref, false)
}

// GetSections lists the tenant's sections, limited to one answerable type
// when className is set.
func (s *Interrogator) GetSections(ctx context.Context, className string, tenant model.Tenant) ([]model.Section, error) {
	return s.Sections.List(ctx, className, tenant)
}

func (s *Interrogator) requireSection(ctx context.Context, ref model.SectionRef) (*model.Section, error) {
	if ref.IsZero() {
		return nil, missing("section")
	}
	return s.Sections.Resolve(ctx, ref, false)
}

// Groups

func (s *Interrogator) CreateGroup(ctx context.Context, p GroupParams) (group *model.Group, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.CreateGroup")
	defer func() { tracing.End(span, err) }()

	section, err := s.requireSection(ctx, p.Section)
	if err != nil {
		return nil, err
	}

	group = &model.Group{
		Name:      p.Name,
		Slug:      util.NewSlug(p.Name),
		SectionID: section.ID,
		TeamID:    p.Tenant.Column(),
	}
	group.PutOptions(model.Options{})

	err = s.transaction(ctx, func(tx *Interrogator) error {
		if err := tx.Groups.Create(ctx, group); err != nil {
			return err
		}
		return tx.Options.Sync(ctx, group, p.Options)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("group created", zap.Uint("id", group.ID), zap.Uint("section_id", group.SectionID), zap.String("slug", group.Slug))
	return group, nil
}

func (s *Interrogator) UpdateGroup(ctx context.Context, ref model.GroupRef, u GroupUpdate) (*model.Group, error) {
	group, err := s.requireGroup(ctx, ref)
	if err != nil {
		return nil, err
	}
	section, err := s.Sections.Resolve(ctx, u.Section, false)
	if err != nil {
		return nil, err
	}

	if u.Name != nil {
		group.Name = *u.Name
		group.Slug = util.NewSlug(*u.Name)
	}
	if section != nil {
		group.SectionID = section.ID
		group.Section = nil
	}

	err = s.transaction(ctx, func(tx *Interrogator) error {
		if err := tx.Groups.Save(ctx, group); err != nil {
			return err
		}
		return tx.Options.Sync(ctx, group, u.Options)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("group updated", zap.Uint("id", group.ID), zap.String("slug", group.Slug))
	return group, nil
}

// CopyGroup clones the group and its questions into the target section.
func (s *Interrogator) CopyGroup(ctx context.Context, ref model.GroupRef, target model.SectionRef) (copied *model.Group, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.CopyGroup")
	defer func() { tracing.End(span, err) }()

	source, err := s.requireGroup(ctx, ref)
	if err != nil {
		return nil, err
	}
	section, err := s.requireSection(ctx, target)
	if err != nil {
		return nil, err
	}

	err = s.transaction(ctx, func(tx *Interrogator) error {
		copied, err = tx.copyGroup(ctx, source, section)
		return err
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func (s *Interrogator) copyGroup(ctx context.Context, source *model.Group, target *model.Section) (*model.Group, error) {
	copied, err := s.CreateGroup(ctx, GroupParams{
		Name:    source.Name,
		Section: model.Of(target),
		Options: source.GetOptions(),
		Tenant:  source.Tenant(),
	})
	if err != nil {
		return nil, err
	}
	questions, err := s.Questions.ListByGroup(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		if _, err := s.copyQuestion(ctx, &questions[i], copied); err != nil {
			return nil, err
		}
	}
	return copied, nil
}

func (s *Interrogator) SetOptionOnGroup(ctx context.Context, ref model.GroupRef, key string, value model.Value) (*model.Group, error) {
	group, err := s.requireGroup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.Options.SetOption(ctx, group, key, value); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Interrogator) UnsetOptionOnGroup(ctx context.Context, ref model.GroupRef, key string) (*model.Group, error) {
	group, err := s.requireGroup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.Options.UnsetOption(ctx, group, key); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Interrogator) DeleteGroup(ctx context.Context, ref model.GroupRef) (res *CascadeResult, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.DeleteGroup")
	defer func() { tracing.End(span, err) }()

	group, err := s.requireGroup(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.Cascade.DeleteGroup(ctx, group)
}

func (s *Interrogator) RestoreGroup(ctx context.Context, ref model.GroupRef) (group *model.Group, res *CascadeResult, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.RestoreGroup")
	defer func() { tracing.End(span, err) }()

	if ref.IsZero() {
		return nil, nil, missing("group")
	}
	group, err = s.Groups.Resolve(ctx, ref, true)
	if err != nil {
		return nil, nil, err
	}
	res, err = s.Cascade.RestoreGroup(ctx, group)
	if err != nil {
		return nil, nil, err
	}
	group.DeletedAt = gorm.DeletedAt{}
	group.DeleteBatch = ""
	return group, res, nil
}

func (s *Interrogator) GetGroup(ctx context.Context, ref model.GroupRef) (*model.Group, error) {
	return s.Groups.Resolve(ctx, ref, false)
}

// GetGroups lists the tenant's groups, limited to one section when the
// reference is set.
func (s *Interrogator) GetGroups(ctx context.Context, section model.SectionRef, tenant model.Tenant) ([]model.Group, error) {
	resolved, err := s.Sections.Resolve(ctx, section, false)
	if err != nil {
		return nil, err
	}
	var sectionID uint
	if resolved != nil {
		sectionID = resolved.ID
	}
	return s.Groups.List(ctx, sectionID, tenant)
}

func (s *Interrogator) requireGroup(ctx context.Context, ref model.GroupRef) (*model.Group, error) {
	if ref.IsZero() {
		return nil, missing("group")
	}
	return s.Groups.Resolve(ctx, ref, false)
}

// Questions

func (s *Interrogator) CreateQuestion(ctx context.Context, p QuestionParams) (question *model.Question, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.CreateQuestion")
	defer func() { tracing.End(span, err) }()

	group, err := s.requireGroup(ctx, p.Group)
	if err != nil {
		return nil, err
	}
	if p.Type.IsZero() {
		return nil, missing("question type")
	}
	qt, err := s.Types.Resolve(ctx, p.Type)
	if err != nil {
		return nil, err
	}

	question = &model.Question{
		Name:           p.Name,
		Slug:           util.NewSlug(p.Name),
		QuestionTypeID: qt.ID,
		Type:           qt,
		GroupID:        group.ID,
		TeamID:         p.Tenant.Column(),
	}
	question.PutOptions(model.Options{})
	question.AddChoices(p.Choices...)

	err = s.transaction(ctx, func(tx *Interrogator) error {
		if err := tx.Questions.Create(ctx, question); err != nil {
			return err
		}
		return tx.Options.Sync(ctx, question, p.Options)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("question created",
		zap.Uint("id", question.ID),
		zap.Uint("group_id", question.GroupID),
		zap.String("type", qt.Slug),
		zap.String("slug", question.Slug))
	return question, nil
}

func (s *Interrogator) UpdateQuestion(ctx context.Context, ref model.QuestionRef, u QuestionUpdate) (*model.Question, error) {
	question, err := s.requireQuestion(ctx, ref)
	if err != nil {
		return nil, err
	}
	group, err := s.Groups.Resolve(ctx, u.Group, false)
	if err != nil {
		return nil, err
	}

	if u.Name != nil {
		question.Name = *u.Name
		question.Slug = util.NewSlug(*u.Name)
	}
	if group != nil {
		question.GroupID = group.ID
		question.Group = nil
	}

	err = s.transaction(ctx, func(tx *Interrogator) error {
		if err := tx.Questions.Save(ctx, question); err != nil {
			return err
		}
		return tx.Options.Sync(ctx, question, u.Options)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("question updated", zap.Uint("id", question.ID), zap.String("slug", question.Slug))
	return question, nil
}

// CopyQuestion duplicates the question into the target group.
func (s *Interrogator) CopyQuestion(ctx context.Context, ref model.QuestionRef, target model.GroupRef) (*model.Question, error) {
	source, err := s.requireQuestion(ctx, ref)
	if err != nil {
		return nil, err
	}
	group, err := s.requireGroup(ctx, target)
	if err != nil {
		return nil, err
	}

	var copied *model.Question
	err = s.transaction(ctx, func(tx *Interrogator) error {
		copied, err = tx.copyQuestion(ctx, source, group)
		return err
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func (s *Interrogator) copyQuestion(ctx context.Context, source *model.Question, target *model.Group) (*model.Question, error) {
	typeRef := model.ByID[model.QuestionType](source.QuestionTypeID)
	if source.Type != nil {
		typeRef = model.Of(source.Type)
	}
	copied, err := s.CreateQuestion(ctx, QuestionParams{
		Name:    source.Name,
		Type:    typeRef,
		Group:   model.Of(target),
		Options: source.GetOptions(),
		Choices: source.Choices,
		Tenant:  source.Tenant(),
	})
	if err != nil {
		return nil, err
	}
	if source.AllowsOther {
		if err := s.setAllowsOther(ctx, copied, true); err != nil {
			return nil, err
		}
	}
	return copied, nil
}

// SetOptionOnQuestion sets one option. The "other" choice flag is a column
// of its own and is ignored here; see SetAllowsMultipleChoiceOther.
func (s *Interrogator) SetOptionOnQuestion(ctx context.Context, ref model.QuestionRef, key string, value model.Value) (*model.Question, error) {
	question, err := s.requireQuestion(ctx, ref)
	if err != nil {
		return nil, err
	}
	if key == model.AllowsOtherOptionKey {
		return question, nil
	}
	if err := s.Options.SetOption(ctx, question, key, value); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *Interrogator) UnsetOptionOnQuestion(ctx context.Context, ref model.QuestionRef, key string) (*model.Question, error) {
	question, err := s.requireQuestion(ctx, ref)
	if err != nil {
		return nil, err
	}
	if key == model.AllowsOtherOptionKey {
		return question, nil
	}
	if err := s.Options.UnsetOption(ctx, question, key); err != nil {
		return nil, err
	}
	return question, nil
}

// SetAllowsMultipleChoiceOther toggles the free-text "other" choice of a
// multiple choice question.
func (s *Interrogator) SetAllowsMultipleChoiceOther(ctx context.Context, ref model.QuestionRef, allow bool) (*model.Question, error) {
	question, err := s.requireQuestion(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.setAllowsOther(ctx, question, allow); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *Interrogator) setAllowsOther(ctx context.Context, q *model.Question, allow bool) error {
	if err := s.DB.WithContext(ctx).Model(q).Update("allows_multiple_choice_other", allow).Error; err != nil {
		return err
	}
	q.AllowsOther = allow
	return nil
}

// AddChoices appends choices to a question. Existing choices are kept.
func (s *Interrogator) AddChoices(ctx context.Context, ref model.QuestionRef, choices ...string) (*model.Question, error) {
	question, err := s.requireQuestion(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(choices) == 0 {
		return question, nil
	}
	question.AddChoices(choices...)
	if err := s.DB.WithContext(ctx).Model(question).Update("choices", question.Choices).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (s *Interrogator) DeleteQuestion(ctx context.Context, ref model.QuestionRef) (res *CascadeResult, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.DeleteQuestion")
	defer func() { tracing.End(span, err) }()

	question, err := s.requireQuestion(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.Cascade.DeleteQuestion(ctx, question)
}

func (s *Interrogator) RestoreQuestion(ctx context.Context, ref model.QuestionRef) (question *model.Question, res *CascadeResult, err error) {
	ctx, span := tracing.Start(ctx, "interrogator.RestoreQuestion")
	defer func() { tracing.End(span, err) }()

	if ref.IsZero() {
		return nil, nil, missing("question")
	}
	question, err = s.Questions.Resolve(ctx, ref, true)
	if err != nil {
		return nil, nil, err
	}
	res, err = s.Cascade.RestoreQuestion(ctx, question)
	if err != nil {
		return nil, nil, err
	}
	question.DeletedAt = gorm.DeletedAt{}
	question.DeleteBatch = ""
	return question, res, nil
}

func (s *Interrogator) GetQuestion(ctx context.Context, ref model.QuestionRef) (*model.Question, error) {
	return s.Questions.Resolve(ctx, ref, false)
}

// GetQuestions lists the tenant's questions, optionally limited to one type
// and one group.
func (s *Interrogator) GetQuestions(ctx context.Context, questionType model.QuestionTypeRef, group model.GroupRef, tenant model.Tenant) ([]model.Question, error) {
	f := repository.QuestionFilter{Tenant: tenant}

	qt, err := s.Types.Resolve(ctx, questionType)
	if err != nil {
		return nil, err
	}
	if qt != nil {
		f.TypeID = qt.ID
	}
	g, err := s.Groups.Resolve(ctx, group, false)
	if err != nil {
		return nil, err
	}
	if g != nil {
		f.GroupID = g.ID
	}
	return s.Questions.List(ctx, f)
}

func (s *Interrogator) requireQuestion(ctx context.Context, ref model.QuestionRef) (*model.Question, error) {
	if ref.IsZero() {
		return nil, missing("question")
	}
	return s.Questions.Resolve(ctx, ref, false)
}

// Typed question factories. The new question belongs to the group's tenant.

func (s *Interrogator) CreateSmallTextQuestion(ctx context.Context, name string, group model.GroupRef, options model.Options) (*model.Question, error) {
	return s.createTyped(ctx, model.SmallText, name, group, options, nil)
}

func (s *Interrogator) CreateLargeTextQuestion(ctx context.Context, name string, group model.GroupRef, options model.Options) (*model.Question, error) {
	return s.createTyped(ctx, model.LargeText, name, group, options, nil)
}

func (s *Interrogator) CreateNumericQuestion(ctx context.Context, name string, group model.GroupRef, options model.Options) (*model.Question, error) {
	return s.createTyped(ctx, model.Numeric, name, group, options, nil)
}

func (s *Interrogator) CreateDateTimeQuestion(ctx context.Context, name string, group model.GroupRef, options model.Options) (*model.Question, error) {
	return s.createTyped(ctx, model.DateTime, name, group, options, nil)
}

func (s *Interrogator) CreateFileUploadQuestion(ctx context.Context, name string, group model.GroupRef, options model.Options) (*model.Question, error) {
	return s.createTyped(ctx, model.FileUpload, name, group, options, nil)
}

// CreateMultipleChoiceQuestion creates the question and then, as a separate
// write, enables the "other" choice when allowOther is set.
func (s *Interrogator) CreateMultipleChoiceQuestion(ctx context.Context, name string, group model.GroupRef, choices []string, allowOther bool) (*model.Question, error) {
	question, err := s.createTyped(ctx, model.MultipleChoice, name, group, nil, choices)
	if err != nil {
		return nil, err
	}
	if allowOther {
		if err := s.setAllowsOther(ctx, question, true); err != nil {
			return nil, err
		}
	}
	return question, nil
}

func (s *Interrogator) createTyped(ctx context.Context, typeSlug, name string, group model.GroupRef, options model.Options, choices []string) (*model.Question, error) {
	g, err := s.requireGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	return s.CreateQuestion(ctx, QuestionParams{
		Name:    name,
		Type:    model.BySlug[model.QuestionType](typeSlug),
		Group:   model.Of(g),
		Options: options,
		Choices: choices,
		Tenant:  g.Tenant(),
	})
}
