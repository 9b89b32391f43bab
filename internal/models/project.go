package models

type Project struct {
	BaseModel

	Name        string `gorm:"not null"`
	WorkspaceID uint   `gorm:"not null;index"`
	CreatedBy   uint   `gorm:"not null;index"`

	// Relationships
	Workspace   Workspace     `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator     User          `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks       []Task        `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []ProjectUser `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
