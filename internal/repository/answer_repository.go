package repository

import (
	"context"
	"interrogator/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) WithTx(tx *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: tx}
}

func (r *AnswerRepository) Create(ctx context.Context, a *model.Answer) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *AnswerRepository) UpdateValue(ctx context.Context, a *model.Answer, value string) error {
	if err := r.DB.WithContext(ctx).Model(a).Update("value", value).Error; err != nil {
		return err
	}
	a.Value = value
	return nil
}

// FindLive returns the owner's live answer to a question within the tenant,
// or nil when there is none.
func (r *AnswerRepository) FindLive(ctx context.Context, questionID uint, owner model.AnswerableRef, tenant model.Tenant) (*model.Answer, error) {
	var answers []model.Answer
	err := r.DB.WithContext(ctx).
		Scopes(ownedBy(owner), tenant.Scope("team_id")).
		Where("question_id = ?", questionID).
		Order("id asc").
		Limit(1).
		Find(&answers).Error
	if err != nil || len(answers) == 0 {
		return nil, err
	}
	return &answers[0], nil
}

// CountLive counts the owner's live answers to a question; used to check the
// one-live-answer rule.
func (r *AnswerRepository) CountLive(ctx context.Context, questionID uint, owner model.AnswerableRef, tenant model.Tenant) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Answer{}).
		Scopes(ownedBy(owner), tenant.Scope("team_id")).
		Where("question_id = ?", questionID).
		Count(&n).Error
	return n, err
}

func (r *AnswerRepository) ListByOwner(ctx context.Context, owner model.AnswerableRef, tenant model.Tenant) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.WithContext(ctx).
		Scopes(ownedBy(owner), tenant.Scope("team_id")).
		Order("id asc").
		Find(&answers).Error
	return answers, err
}

// AnswerSearch selects answers by value. With Pattern set, Value is a LIKE
// pattern; otherwise it must match exactly. A non-empty QuestionIDs limits
// the result to those questions; RestrictToQuestions does so even when the
// list is empty.
type AnswerSearch struct {
	Value               string
	Pattern             bool
	AnswerableType      string
	QuestionIDs         []uint
	RestrictToQuestions bool
	Tenant              model.Tenant
}

func (r *AnswerRepository) Search(ctx context.Context, s AnswerSearch) ([]model.Answer, error) {
	answers := []model.Answer{}
	if s.RestrictToQuestions && len(s.QuestionIDs) == 0 {
		return answers, nil
	}

	query := r.DB.WithContext(ctx).Model(&model.Answer{}).Scopes(s.Tenant.Scope("team_id"))
	if s.Pattern {
		query = query.Where("value LIKE ?", s.Value)
	} else {
		query = query.Where(exactValueClause(r.DB.Dialector.Name()), s.Value)
	}
	if s.AnswerableType != "" {
		query = query.Where("answerable_type = ?", s.AnswerableType)
	}
	if s.RestrictToQuestions || len(s.QuestionIDs) > 0 {
		query = query.Where("question_id IN ?", s.QuestionIDs)
	}
	err := query.Order("id asc").Find(&answers).Error
	return answers, err
}

// exactValueClause compares answers.value byte for byte. MySQL's default
// collations fold case and trailing spaces on plain equality.
func exactValueClause(dialect string) string {
	if dialect == "mysql" {
		return "BINARY value = ?"
	}
	return "value = ?"
}

func ownedBy(owner model.AnswerableRef) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("answerable_type = ? AND answerable_id = ?", owner.Type, owner.ID)
	}
}
