package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryNameMaxLength is the longest display name a category may have.
const CategoryNameMaxLength = 50

// Category is a per-user tag for tasks. NormalizedName is unique per user
// under a binary collation, so only case and surrounding space fold.
type Category struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name           string    `json:"name" gorm:"size:50;not null"`
	NormalizedName string    `json:"-" gorm:"type:varchar(50) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin;not null;uniqueIndex:idx_categories_user_name,priority:2"`
	UserID         uuid.UUID `json:"-" gorm:"type:char(36);not null;uniqueIndex:idx_categories_user_name,priority:1"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
