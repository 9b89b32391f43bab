package models

type Workspace struct {
	BaseModel

	Name      string `gorm:"not null"`
	CreatedBy uint   `gorm:"not null;index"`

	// Relationships
	Creator     User            `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Projects    []Project       `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []WorkspaceUser `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
