package models

import "time"

// BaseModel is gorm.Model without soft deletes. Rows are removed for real and
// the database cascades take care of dependents.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
