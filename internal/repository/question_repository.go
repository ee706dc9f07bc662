package repository

import (
	"context"
	"interrogator/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(q).Error
}

func (r *QuestionRepository) Save(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(q).Error
}

// Resolve always returns the question with its type attached.
func (r *QuestionRepository) Resolve(ctx context.Context, ref model.QuestionRef, withTrashed bool) (*model.Question, error) {
	q, err := resolve(ctx, r.DB, ref, questionLookup, withTrashed, "Type")
	if err != nil || q == nil {
		return q, err
	}
	if q.Type == nil {
		var qt model.QuestionType
		if err := r.DB.WithContext(ctx).First(&qt, q.QuestionTypeID).Error; err != nil {
			return nil, err
		}
		q.Type = &qt
	}
	return q, nil
}

// LoadSection attaches the question's group and that group's section. Either
// stays nil when it has been soft-deleted.
func (r *QuestionRepository) LoadSection(ctx context.Context, q *model.Question) error {
	if q.Group != nil && q.Group.ID == q.GroupID && q.Group.Section != nil {
		return nil
	}
	var group model.Group
	err := r.DB.WithContext(ctx).Preload("Section").Where("id = ?", q.GroupID).Limit(1).Find(&group).Error
	if err != nil {
		return err
	}
	if group.ID == 0 {
		q.Group = nil
		return nil
	}
	q.Group = &group
	return nil
}

type QuestionFilter struct {
	GroupID uint
	TypeID  uint
	Tenant  model.Tenant
}

// List returns the tenant's questions with their types, sorted by derived
// order.
func (r *QuestionRepository) List(ctx context.Context, f QuestionFilter) ([]model.Question, error) {
	var questions []model.Question
	query := r.DB.WithContext(ctx).Model(&model.Question{}).Scopes(f.Tenant.Scope("team_id")).Preload("Type")
	if f.GroupID > 0 {
		query = query.Where("group_id = ?", f.GroupID)
	}
	if f.TypeID > 0 {
		query = query.Where("question_type_id = ?", f.TypeID)
	}
	if err := query.Order("id asc").Find(&questions).Error; err != nil {
		return nil, err
	}
	sortByOrder(questions)
	return questions, nil
}

// ListByGroup returns every live question of a group regardless of tenant.
func (r *QuestionRepository) ListByGroup(ctx context.Context, groupID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).Preload("Type").Where("group_id = ?", groupID).Order("id asc").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	sortByOrder(questions)
	return questions, nil
}

// IDsByType lists the ids of all live questions of one type.
func (r *QuestionRepository) IDsByType(ctx context.Context, typeID uint) ([]uint, error) {
	ids := []uint{}
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("question_type_id = ?", typeID).Order("id asc").Pluck("id", &ids).Error
	return ids, err
}
