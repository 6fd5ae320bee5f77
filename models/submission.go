package models

import "time"

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	StatusPending     SubmissionStatus = "pending"
	StatusUnderReview SubmissionStatus = "under_review"
	StatusApproved    SubmissionStatus = "approved"
	StatusRejected    SubmissionStatus = "rejected"
)

// SubmissionStatuses lists every valid status in lifecycle order.
var SubmissionStatuses = []SubmissionStatus{
	StatusPending,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
}

// Valid reports whether s is one of the four lifecycle states.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Submission represents the submissions table.
type Submission struct {
	ID        uint             `gorm:"primaryKey;column:id" json:"id"`
	ProjectID uint             `gorm:"column:project_id;not null;index" json:"project_id"`
	UserID    uint             `gorm:"column:user_id;not null;index" json:"user_id"`
	Code      string           `gorm:"column:code;type:text;not null" json:"code"`
	Status    SubmissionStatus `gorm:"column:status;size:20;not null;default:pending;index" json:"status"`
	CreatedAt time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Submission.
func (Submission) TableName() string {
	return "submissions"
}
