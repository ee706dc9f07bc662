package repository

import (
	"context"
	"interrogator/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SectionRepository struct {
	DB *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: db}
}

func (r *SectionRepository) WithTx(tx *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: tx}
}

func (r *SectionRepository) Create(ctx context.Context, s *model.Section) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *SectionRepository) Save(ctx context.Context, s *model.Section) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *SectionRepository) Resolve(ctx context.Context, ref model.SectionRef, withTrashed bool) (*model.Section, error) {
	return resolve(ctx, r.DB, ref, sectionLookup, withTrashed)
}

// SetClassName attaches the section to an answerable type, or detaches it
// when className is nil.
func (r *SectionRepository) SetClassName(ctx context.Context, s *model.Section, className *string) error {
	if err := r.DB.WithContext(ctx).Model(s).Update("class_name", className).Error; err != nil {
		return err
	}
	s.ClassName = className
	return nil
}

// List returns the tenant's sections, optionally limited to one answerable
// type, sorted by derived order.
func (r *SectionRepository) List(ctx context.Context, className string, tenant model.Tenant) ([]model.Section, error) {
	var sections []model.Section
	query := r.DB.WithContext(ctx).Model(&model.Section{}).Scopes(tenant.Scope("team_id"))
	if className != "" {
		query = query.Where("class_name = ?", className)
	}
	if err := query.Order("id asc").Find(&sections).Error; err != nil {
		return nil, err
	}
	sortByOrder(sections)
	return sections, nil
}
