package models

import "gorm.io/datatypes"

type User struct {
	BaseModel

	Name         string  `gorm:"not null"`
	Email        *string `gorm:"uniqueIndex"` // null for Telegram-only accounts
	PasswordHash *string
	TelegramID   *string        `gorm:"index"`
	TelegramData datatypes.JSON `gorm:"type:jsonb"` // raw login widget payload

	// Relationships
	CreatedWorkspaces    []Workspace     `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedProjects      []Project       `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ProjectMemberships   []ProjectUser   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	WorkspaceMemberships []WorkspaceUser `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedTasks         []Task          `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTasks        []Task          `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments             []Comment       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
