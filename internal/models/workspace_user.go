package models

import "github.com/taskhive-dev/taskhive/internal/types"

type WorkspaceUser struct {
	BaseModel

	WorkspaceID uint              `gorm:"not null;uniqueIndex:idx_workspace_user"`
	UserID      uint              `gorm:"not null;uniqueIndex:idx_workspace_user"`
	AccessLevel types.AccessLevel `gorm:"not null"`

	// Relationships
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
