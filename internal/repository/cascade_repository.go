package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// RestoreWindow correlates children with a parent deleted before cascade
// batches were recorded.
const RestoreWindow = time.Second

// CascadeRepository holds the table-agnostic soft delete and restore
// statements used by the cascade engine. m is always a pointer to a model
// with a DeletedAt and DeleteBatch column.
type CascadeRepository struct {
	DB *gorm.DB
}

func NewCascadeRepository(db *gorm.DB) *CascadeRepository {
	return &CascadeRepository{DB: db}
}

func (r *CascadeRepository) WithTx(tx *gorm.DB) *CascadeRepository {
	return &CascadeRepository{DB: tx}
}

// LiveIDs lists live rows whose column is one of parentIDs.
func (r *CascadeRepository) LiveIDs(ctx context.Context, m interface{}, column string, parentIDs []uint) ([]uint, error) {
	ids := []uint{}
	if len(parentIDs) == 0 {
		return ids, nil
	}
	err := r.DB.WithContext(ctx).Model(m).Where(column+" IN ?", parentIDs).Order("id asc").Pluck("id", &ids).Error
	return ids, err
}

// MarkDeleted soft-deletes the live rows among ids and stamps them with the
// cascade batch.
func (r *CascadeRepository) MarkDeleted(ctx context.Context, m interface{}, ids []uint, batch string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(m).Where("id IN ?", ids).Updates(map[string]interface{}{
		"deleted_at":   at,
		"delete_batch": batch,
	})
	return res.RowsAffected, res.Error
}

// DeletedRow identifies a soft-deleted row and the cascade it went down with.
type DeletedRow struct {
	ID          uint
	DeleteBatch string
	DeletedAt   gorm.DeletedAt
}

// CorrelatedRows lists the soft-deleted children of parentID that went down
// with it: same batch when the parent has one, otherwise deleted within
// RestoreWindow after the parent.
func (r *CascadeRepository) CorrelatedRows(ctx context.Context, m interface{}, column string, parentID uint, batch string, deletedAt time.Time) ([]DeletedRow, error) {
	rows := []DeletedRow{}
	query := r.DB.WithContext(ctx).Unscoped().Model(m).
		Select("id", "delete_batch", "deleted_at").
		Where(column+" = ?", parentID).
		Where("deleted_at IS NOT NULL")
	if batch != "" {
		query = query.Where("delete_batch = ?", batch)
	} else {
		query = query.Where("deleted_at >= ? AND deleted_at <= ?", deletedAt, deletedAt.Add(RestoreWindow))
	}
	err := query.Order("id asc").Find(&rows).Error
	return rows, err
}

// Restore clears the soft-delete columns on the given rows.
func (r *CascadeRepository) Restore(ctx context.Context, m interface{}, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Unscoped().Model(m).Where("id IN ?", ids).Updates(map[string]interface{}{
		"deleted_at":   nil,
		"delete_batch": "",
	})
	return res.RowsAffected, res.Error
}
