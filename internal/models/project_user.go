package models

import "github.com/taskhive-dev/taskhive/internal/types"

// ProjectUser grants a user an access level on a project. At most one row per
// (project, user) pair; pending invites live here too with the "invited" level.
type ProjectUser struct {
	BaseModel

	ProjectID   uint              `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID      uint              `gorm:"not null;uniqueIndex:idx_project_user"`
	AccessLevel types.AccessLevel `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
