package services

import (
	"context"
	"fmt"
	"time"

	"code-review-api/apperrors"
	"code-review-api/models"
	"code-review-api/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentInput is the payload for a new comment.
type CommentInput struct {
	LineNumber int
	Content    string
}

// CommentUpdate is a partial update; nil fields are left untouched.
type CommentUpdate struct {
	LineNumber *int
	Content    *string
}

type CommentService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCommentService(db *gorm.DB, logger *zap.Logger) *CommentService {
	return &CommentService{db: resolveDB(db), logger: resolveLogger(logger)}
}

func validateLineNumber(line int) error {
	if line < 1 {
		return apperrors.Validation("Line number must be at least 1")
	}
	return nil
}

func validateCommentContent(content string) (string, error) {
	content = utils.SanitizeInput(content)
	length := utils.CharLength(content)
	if length < models.CommentMinLength || length > models.CommentMaxLength {
		return "", apperrors.Validation("Content must be between %d and %d characters", models.CommentMinLength, models.CommentMaxLength)
	}
	return content, nil
}

// Create anchors a reviewer comment to a line of a submission.
func (s *CommentService) Create(ctx context.Context, id Identity, submissionID uint, input CommentInput) (*models.Comment, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if err := validateLineNumber(input.LineNumber); err != nil {
		return nil, err
	}
	content, err := validateCommentContent(input.Content)
	if err != nil {
		return nil, err
	}

	submission, err := findSubmission(ctx, s.db, submissionID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapCreateComment, ResourceFacts{}); err != nil {
		return nil, err
	}

	comment := models.Comment{
		SubmissionID: submission.ID,
		ReviewerID:   id.UserID,
		LineNumber:   input.LineNumber,
		Content:      content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

// ListBySubmission returns the thread in rendering order: line number, then
// creation time.
func (s *CommentService) ListBySubmission(ctx context.Context, id Identity, submissionID uint) ([]models.Comment, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if _, err := findSubmission(ctx, s.db, submissionID); err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("line_number ASC, created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) ListByLine(ctx context.Context, id Identity, submissionID uint, line int) ([]models.Comment, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if err := validateLineNumber(line); err != nil {
		return nil, err
	}
	if _, err := findSubmission(ctx, s.db, submissionID); err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("submission_id = ? AND line_number = ?", submissionID, line).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListMine returns the caller's comments, newest first.
func (s *CommentService) ListMine(ctx context.Context, id Identity) ([]models.Comment, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("reviewer_id = ?", id.UserID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) List(ctx context.Context, id Identity) ([]models.Comment, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, id Identity, commentID uint) (*models.Comment, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	return findComment(ctx, s.db, commentID)
}

func (s *CommentService) Update(ctx context.Context, id Identity, commentID uint, update CommentUpdate) (*models.Comment, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	changes := map[string]interface{}{}
	if update.LineNumber != nil {
		if err := validateLineNumber(*update.LineNumber); err != nil {
			return nil, err
		}
		changes["line_number"] = *update.LineNumber
	}
	if update.Content != nil {
		content, err := validateCommentContent(*update.Content)
		if err != nil {
			return nil, err
		}
		changes["content"] = content
	}

	comment, err := findComment(ctx, s.db, commentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapEditComment, ResourceFacts{AuthorID: comment.ReviewerID}); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return comment, nil
	}

	changes["updated_at"] = time.Now()
	if err := s.db.WithContext(ctx).Model(comment).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return findComment(ctx, s.db, commentID)
}

func (s *CommentService) Delete(ctx context.Context, id Identity, commentID uint) error {
	if err := RequireIdentity(id); err != nil {
		return err
	}
	comment, err := findComment(ctx, s.db, commentID)
	if err != nil {
		return err
	}
	if err := Authorize(id, CapEditComment, ResourceFacts{AuthorID: comment.ReviewerID}); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(comment).Error; err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
