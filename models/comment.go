package models

import "time"

// Comment bounds.
const (
	CommentMinLength = 1
	CommentMaxLength = 1000
)

// Comment is a line-anchored remark on a submission.
type Comment struct {
	ID           uint      `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID uint      `gorm:"column:submission_id;not null;index:idx_comments_thread,priority:1" json:"submission_id"`
	ReviewerID   uint      `gorm:"column:reviewer_id;not null;index" json:"reviewer_id"`
	LineNumber   int       `gorm:"column:line_number;not null;index:idx_comments_thread,priority:2" json:"line_number"`
	Content      string    `gorm:"column:content;size:1000;not null" json:"content"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Comment.
func (Comment) TableName() string {
	return "comments"
}
