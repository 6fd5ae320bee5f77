package services

import (
	"context"
	"errors"
	"fmt"

	"code-review-api/apperrors"
	"code-review-api/config"
	"code-review-api/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func resolveDB(db *gorm.DB) *gorm.DB {
	if db == nil {
		return config.DB
	}
	return db
}

func resolveLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// findByID loads one row by primary key, translating a missing row to
// apperrors.ErrNotFound for the named entity.
func findByID[T any](ctx context.Context, db *gorm.DB, id uint, entity string) (*T, error) {
	if id == 0 {
		return nil, apperrors.NotFound(entity)
	}
	var row T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(entity)
		}
		return nil, fmt.Errorf("failed to load %s: %w", entity, err)
	}
	return &row, nil
}

func findUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	return findByID[models.User](ctx, db, id, "User")
}

func findProject(ctx context.Context, db *gorm.DB, id uint) (*models.Project, error) {
	return findByID[models.Project](ctx, db, id, "Project")
}

func findSubmission(ctx context.Context, db *gorm.DB, id uint) (*models.Submission, error) {
	return findByID[models.Submission](ctx, db, id, "Submission")
}

func findReview(ctx context.Context, db *gorm.DB, id uint) (*models.Review, error) {
	return findByID[models.Review](ctx, db, id, "Review")
}

func findComment(ctx context.Context, db *gorm.DB, id uint) (*models.Comment, error) {
	return findByID[models.Comment](ctx, db, id, "Comment")
}

func isProjectMember(ctx context.Context, db *gorm.DB, projectID, userID uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

// submissionFacts resolves the owning project of a submission and returns the
// facts the guard needs. A dangling project reference reports NotFound.
func submissionFacts(ctx context.Context, db *gorm.DB, submission *models.Submission) (*models.Project, ResourceFacts, error) {
	project, err := findProject(ctx, db, submission.ProjectID)
	if err != nil {
		return nil, ResourceFacts{}, err
	}
	return project, ResourceFacts{
		ProjectOwnerID: project.CreatedBy,
		AuthorID:       submission.UserID,
	}, nil
}

func translateWriteError(err error, conflictMessage string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict("%s", conflictMessage)
	}
	return err
}
