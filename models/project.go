package models

import "time"

// Project represents the projects table. CreatedBy is the owner and never changes.
type Project struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedBy   uint      `gorm:"column:created_by;not null;index" json:"created_by"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// IsOwner reports whether userID created the project.
func (p *Project) IsOwner(userID uint) bool {
	return p != nil && userID != 0 && p.CreatedBy == userID
}

// ProjectMember represents the project_members table. The (project_id, user_id)
// pair is the primary key, so a user joins a project at most once.
type ProjectMember struct {
	ProjectID uint      `gorm:"primaryKey;autoIncrement:false;column:project_id" json:"project_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;column:user_id;index" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}
