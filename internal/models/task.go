package models

import (
	"time"

	"github.com/taskhive-dev/taskhive/internal/types"
)

type Task struct {
	BaseModel

	Name        string `gorm:"not null"`
	Description string
	Status      types.TaskStatus   `gorm:"not null;default:OPEN"`
	Priority    types.TaskPriority `gorm:"not null;default:NONE"`
	DueDate     *time.Time
	IsCompleted bool  `gorm:"not null;default:false"`
	CreatedBy   uint  `gorm:"not null;index"`
	AssignedTo  *uint `gorm:"index"`
	ProjectID   uint  `gorm:"not null;index"`
	// Self-reference: tasks form a forest per project.
	ParentTaskID *uint `gorm:"index"`

	// Relationships
	Project    Project    `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator    User       `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee   *User      `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	ParentTask *Task      `gorm:"foreignKey:ParentTaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Subtasks   []Task     `gorm:"foreignKey:ParentTaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reminders  []Reminder `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments   []Comment  `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
