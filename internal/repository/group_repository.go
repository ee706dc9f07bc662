package repository

import (
	"context"
	"interrogator/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) WithTx(tx *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: tx}
}

func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(g).Error
}

func (r *GroupRepository) Save(ctx context.Context, g *model.Group) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(g).Error
}

func (r *GroupRepository) Resolve(ctx context.Context, ref model.GroupRef, withTrashed bool) (*model.Group, error) {
	return resolve(ctx, r.DB, ref, groupLookup, withTrashed)
}

// List returns the tenant's groups, optionally limited to one section,
// sorted by derived order.
func (r *GroupRepository) List(ctx context.Context, sectionID uint, tenant model.Tenant) ([]model.Group, error) {
	var groups []model.Group
	query := r.DB.WithContext(ctx).Model(&model.Group{}).Scopes(tenant.Scope("team_id"))
	if sectionID > 0 {
		query = query.Where("section_id = ?", sectionID)
	}
	if err := query.Order("id asc").Find(&groups).Error; err != nil {
		return nil, err
	}
	sortByOrder(groups)
	return groups, nil
}

// ListBySection returns every live group of a section regardless of tenant.
func (r *GroupRepository) ListBySection(ctx context.Context, sectionID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.WithContext(ctx).Where("section_id = ?", sectionID).Order("id asc").Find(&groups).Error
	if err != nil {
		return nil, err
	}
	sortByOrder(groups)
	return groups, nil
}
