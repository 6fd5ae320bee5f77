package services

import (
	"fmt"

	"code-review-api/models"

	"gorm.io/gorm"
)

// deleteSubmissionTree removes submissions together with their comments,
// reviews and status history. The store is not trusted to cascade.
func deleteSubmissionTree(tx *gorm.DB, submissionIDs []uint) error {
	if len(submissionIDs) == 0 {
		return nil
	}
	if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&models.Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}
	if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&models.SubmissionStatusHistory{}).Error; err != nil {
		return fmt.Errorf("failed to delete status history: %w", err)
	}
	if err := tx.Where("id IN ?", submissionIDs).Delete(&models.Submission{}).Error; err != nil {
		return fmt.Errorf("failed to delete submissions: %w", err)
	}
	return nil
}

// deleteProjectTree removes projects, their memberships and every submission
// filed against them.
func deleteProjectTree(tx *gorm.DB, projectIDs []uint) error {
	if len(projectIDs) == 0 {
		return nil
	}
	var submissionIDs []uint
	if err := tx.Model(&models.Submission{}).
		Where("project_id IN ?", projectIDs).
		Pluck("id", &submissionIDs).Error; err != nil {
		return fmt.Errorf("failed to list project submissions: %w", err)
	}
	if err := deleteSubmissionTree(tx, submissionIDs); err != nil {
		return err
	}
	if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.ProjectMember{}).Error; err != nil {
		return fmt.Errorf("failed to delete project members: %w", err)
	}
	if err := tx.Where("id IN ?", projectIDs).Delete(&models.Project{}).Error; err != nil {
		return fmt.Errorf("failed to delete projects: %w", err)
	}
	return nil
}
