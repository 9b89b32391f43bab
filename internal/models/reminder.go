package models

import "time"

type Reminder struct {
	BaseModel

	TaskID   uint      `gorm:"not null;index"`
	RemindAt time.Time `gorm:"not null"`
	IsSent   bool      `gorm:"not null;default:false"`

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
