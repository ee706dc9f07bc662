package model

import (
	"time"

	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SoftDeletable is embedded by every entity that takes part in cascades.
// DeleteBatch is stamped on all rows soft-deleted by the same cascade so a
// restore can bring back exactly that set.
type SoftDeletable struct {
	DeleteBatch string `gorm:"size:36;index" json:"-"`
}
