package models

import "time"

// Status change sources recorded in the history table.
const (
	StatusSourceDecision   = "decision"
	StatusSourceCorrection = "correction"
	StatusSourceForced     = "forced"
)

// SubmissionStatusHistory tracks historical status changes for submissions.
// Forced changes carry no ReviewID; this is the only trail they leave.
type SubmissionStatusHistory struct {
	ID           uint             `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID uint             `gorm:"column:submission_id;not null;index" json:"submission_id"`
	OldStatus    SubmissionStatus `gorm:"column:old_status;size:20" json:"old_status"`
	NewStatus    SubmissionStatus `gorm:"column:new_status;size:20;not null" json:"new_status"`
	ChangedBy    *uint            `gorm:"column:changed_by" json:"changed_by"`
	Source       string           `gorm:"column:source;size:20;not null" json:"source"`
	ReviewID     *uint            `gorm:"column:review_id" json:"review_id,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for SubmissionStatusHistory.
func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
