package models

import "time"

// Decision is the outcome recorded by a review.
type Decision string

const (
	DecisionApproved         Decision = "approved"
	DecisionChangesRequested Decision = "changes_requested"
)

// Valid reports whether d is a known decision.
func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionChangesRequested
}

// ResultingStatus maps a decision to the submission status it produces.
func (d Decision) ResultingStatus() SubmissionStatus {
	if d == DecisionApproved {
		return StatusApproved
	}
	return StatusUnderReview
}

// Review is one entry of a submission's append-only decision ledger.
// ReviewerID is nil for reviews whose issuer no longer exists.
type Review struct {
	ID           uint      `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID uint      `gorm:"column:submission_id;not null;index" json:"submission_id"`
	ReviewerID   *uint     `gorm:"column:reviewer_id;index" json:"reviewer_id"`
	Decision     Decision  `gorm:"column:decision;size:32;not null" json:"decision"`
	Comment      string    `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt    time.Time `gorm:"column:created_at;index" json:"created_at"`
}

// TableName specifies the table name for Review.
func (Review) TableName() string {
	return "reviews"
}

// ReviewerStats summarises the ledger entries issued by one reviewer.
type ReviewerStats struct {
	TotalReviews          int64 `json:"total_reviews"`
	ApprovedCount         int64 `json:"approved_count"`
	ChangesRequestedCount int64 `json:"changes_requested_count"`
}
