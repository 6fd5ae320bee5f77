package services

import (
	"context"
	"errors"
	"fmt"

	"code-review-api/apperrors"
	"code-review-api/models"
	"code-review-api/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DecisionResult pairs a ledger entry with the submission state it produced.
type DecisionResult struct {
	Review     models.Review     `json:"review"`
	Submission models.Submission `json:"submission"`
}

// ReviewService owns the review ledger. Every decision is appended and the
// resulting status applied in the same transaction.
type ReviewService struct {
	db          *gorm.DB
	submissions *SubmissionService
	logger      *zap.Logger
}

func NewReviewService(db *gorm.DB, submissions *SubmissionService, logger *zap.Logger) *ReviewService {
	db = resolveDB(db)
	if submissions == nil {
		submissions = NewSubmissionService(db, logger)
	}
	return &ReviewService{db: db, submissions: submissions, logger: resolveLogger(logger)}
}

// SubmitDecision records a decision on a submission and moves its status:
// approved -> approved, changes_requested -> under_review. Concurrent
// decisions are not serialised; the last one to commit sets the status.
func (s *ReviewService) SubmitDecision(ctx context.Context, id Identity, submissionID uint, decision models.Decision, comment string) (*DecisionResult, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if !decision.Valid() {
		return nil, apperrors.Validation("Decision must be either 'approved' or 'changes_requested'")
	}

	submission, err := findSubmission(ctx, s.db, submissionID)
	if err != nil {
		return nil, err
	}
	_, facts, err := submissionFacts(ctx, s.db, submission)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapDecide, facts); err != nil {
		return nil, err
	}

	reviewerID := id.UserID
	review := models.Review{
		SubmissionID: submission.ID,
		ReviewerID:   &reviewerID,
		Decision:     decision,
		Comment:      utils.SanitizeInput(comment),
	}

	err = s.db.WithContext(persistentContext(ctx)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to save review record: %w", err)
		}
		return s.submissions.applyStatus(tx, submission, decision.ResultingStatus(), statusChange{
			changedBy: id.UserID,
			source:    models.StatusSourceDecision,
			reviewID:  &review.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review decision applied",
		zap.Uint("submission_id", submission.ID),
		zap.Uint("review_id", review.ID),
		zap.String("decision", string(decision)),
		zap.String("status", string(submission.Status)),
		zap.Uint("reviewer_id", id.UserID),
	)
	return &DecisionResult{Review: review, Submission: *submission}, nil
}

// CorrectDecision changes the decision of an existing review. Only the issuer
// may correct it. When the review is the latest ledger entry of its
// submission, the status is re-derived from the corrected decision.
func (s *ReviewService) CorrectDecision(ctx context.Context, id Identity, reviewID uint, decision models.Decision) (*DecisionResult, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if !decision.Valid() {
		return nil, apperrors.Validation("Decision must be either 'approved' or 'changes_requested'")
	}

	review, err := findReview(ctx, s.db, reviewID)
	if err != nil {
		return nil, err
	}
	var issuer uint
	if review.ReviewerID != nil {
		issuer = *review.ReviewerID
	}
	if err := Authorize(id, CapCorrectDecision, ResourceFacts{AuthorID: issuer}); err != nil {
		return nil, err
	}

	var submission *models.Submission
	txCtx := persistentContext(ctx)
	err = s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		current, err := findSubmission(txCtx, tx, review.SubmissionID)
		if err != nil {
			return err
		}
		submission = current

		if err := tx.Model(review).Update("decision", decision).Error; err != nil {
			return fmt.Errorf("failed to correct review: %w", err)
		}
		review.Decision = decision

		latest, err := latestReview(txCtx, tx, review.SubmissionID)
		if err != nil {
			return err
		}
		if latest.ID != review.ID {
			return nil
		}
		return s.submissions.applyStatus(tx, submission, decision.ResultingStatus(), statusChange{
			changedBy: id.UserID,
			source:    models.StatusSourceCorrection,
			reviewID:  &review.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review decision corrected",
		zap.Uint("review_id", review.ID),
		zap.String("decision", string(decision)),
		zap.String("status", string(submission.Status)),
	)
	return &DecisionResult{Review: *review, Submission: *submission}, nil
}

func latestReview(ctx context.Context, db *gorm.DB, submissionID uint) (*models.Review, error) {
	var review models.Review
	if err := db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at DESC, id DESC").
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Review")
		}
		return nil, fmt.Errorf("failed to load latest review: %w", err)
	}
	return &review, nil
}

// ListBySubmission returns the ledger of a submission, newest first.
func (s *ReviewService) ListBySubmission(ctx context.Context, id Identity, submissionID uint) ([]models.Review, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if _, err := findSubmission(ctx, s.db, submissionID); err != nil {
		return nil, err
	}
	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id Identity, reviewID uint) (*models.Review, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	return findReview(ctx, s.db, reviewID)
}

// ListMine returns the reviews issued by the caller, newest first.
func (s *ReviewService) ListMine(ctx context.Context, id Identity) ([]models.Review, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Where("reviewer_id = ?", id.UserID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Stats counts the caller's decisions by outcome.
func (s *ReviewService) Stats(ctx context.Context, id Identity) (*models.ReviewerStats, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	var rows []struct {
		Decision models.Decision
		Count    int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("decision, COUNT(*) AS count").
		Where("reviewer_id = ?", id.UserID).
		Group("decision").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviewer stats: %w", err)
	}

	stats := &models.ReviewerStats{}
	for _, row := range rows {
		stats.TotalReviews += row.Count
		switch row.Decision {
		case models.DecisionApproved:
			stats.ApprovedCount = row.Count
		case models.DecisionChangesRequested:
			stats.ChangesRequestedCount = row.Count
		}
	}
	return stats, nil
}
