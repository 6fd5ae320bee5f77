package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"code-review-api/apperrors"
	"code-review-api/models"
	"code-review-api/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionInput is the payload for submission creation.
type SubmissionInput struct {
	ProjectID uint
	Code      string
}

// SubmissionService owns submission records and their status transitions.
type SubmissionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSubmissionService(db *gorm.DB, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{db: resolveDB(db), logger: resolveLogger(logger)}
}

func validateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return apperrors.Validation("Code is required")
	}
	return nil
}

// Create files a new pending submission. The caller must own the project or
// be a member of it at this moment; later revocation does not affect the row.
func (s *SubmissionService) Create(ctx context.Context, id Identity, input SubmissionInput) (*models.Submission, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if input.ProjectID == 0 {
		return nil, apperrors.Validation("Project ID is required")
	}
	if err := validateCode(input.Code); err != nil {
		return nil, err
	}

	project, err := findProject(ctx, s.db, input.ProjectID)
	if err != nil {
		return nil, err
	}
	member, err := isProjectMember(ctx, s.db, project.ID, id.UserID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapCreateSubmission, ResourceFacts{
		ProjectOwnerID: project.CreatedBy,
		IsMember:       member,
	}); err != nil {
		return nil, err
	}

	submission := models.Submission{
		ProjectID: project.ID,
		UserID:    id.UserID,
		Code:      input.Code,
		Status:    models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&submission).Error; err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return &submission, nil
}

func (s *SubmissionService) Get(ctx context.Context, id Identity, submissionID uint) (*models.Submission, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	return findSubmission(ctx, s.db, submissionID)
}

func (s *SubmissionService) list(ctx context.Context, query interface{}, args ...interface{}) ([]models.Submission, error) {
	var submissions []models.Submission
	q := s.db.WithContext(ctx).Model(&models.Submission{})
	if query != nil {
		q = q.Where(query, args...)
	}
	if err := q.Order("id ASC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionService) List(ctx context.Context, id Identity) ([]models.Submission, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	return s.list(ctx, nil)
}

func (s *SubmissionService) ListByProject(ctx context.Context, id Identity, projectID uint) ([]models.Submission, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if _, err := findProject(ctx, s.db, projectID); err != nil {
		return nil, err
	}
	return s.list(ctx, "project_id = ?", projectID)
}

// ListMine returns the submissions authored by the caller.
func (s *SubmissionService) ListMine(ctx context.Context, id Identity) ([]models.Submission, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	return s.list(ctx, "user_id = ?", id.UserID)
}

// ListByStatus accepts canonical statuses and their aliases.
func (s *SubmissionService) ListByStatus(ctx context.Context, id Identity, rawStatus string) ([]models.Submission, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, "status = ?", status)
}

func parseStatus(raw string) (models.SubmissionStatus, error) {
	status, ok := utils.ParseSubmissionStatus(raw)
	if !ok {
		return "", apperrors.Validation("Invalid status. Must be one of: %s", strings.Join(utils.StatusNames(), ", "))
	}
	return status, nil
}

// UpdateCode replaces the submitted code. Status is not touched.
func (s *SubmissionService) UpdateCode(ctx context.Context, id Identity, submissionID uint, code string) (*models.Submission, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}

	submission, err := findSubmission(ctx, s.db, submissionID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapEditSubmission, ResourceFacts{AuthorID: submission.UserID}); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(submission).Updates(map[string]interface{}{
		"code":       code,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	return findSubmission(ctx, s.db, submissionID)
}

// Delete removes the submission with its comments, reviews and history.
func (s *SubmissionService) Delete(ctx context.Context, id Identity, submissionID uint) error {
	if err := RequireIdentity(id); err != nil {
		return err
	}
	submission, err := findSubmission(ctx, s.db, submissionID)
	if err != nil {
		return err
	}
	_, facts, err := submissionFacts(ctx, s.db, submission)
	if err != nil {
		return err
	}
	if err := Authorize(id, CapDeleteSubmission, facts); err != nil {
		return err
	}

	if err := s.db.WithContext(persistentContext(ctx)).Transaction(func(tx *gorm.DB) error {
		return deleteSubmissionTree(tx, []uint{submission.ID})
	}); err != nil {
		return err
	}

	s.logger.Info("submission deleted",
		zap.Uint("submission_id", submission.ID),
		zap.Uint("deleted_by", id.UserID),
	)
	return nil
}

// ForceSetStatus assigns any status directly. No review is recorded, so the
// status may diverge from the ledger; only a history row marks the change.
func (s *SubmissionService) ForceSetStatus(ctx context.Context, id Identity, submissionID uint, rawStatus string) (*models.Submission, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	submission, err := findSubmission(ctx, s.db, submissionID)
	if err != nil {
		return nil, err
	}
	_, facts, err := submissionFacts(ctx, s.db, submission)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapForceSetStatus, facts); err != nil {
		return nil, err
	}

	err = s.db.WithContext(persistentContext(ctx)).Transaction(func(tx *gorm.DB) error {
		return s.applyStatus(tx, submission, status, statusChange{
			changedBy: id.UserID,
			source:    models.StatusSourceForced,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission status forced",
		zap.Uint("submission_id", submission.ID),
		zap.String("status", string(status)),
		zap.Uint("changed_by", id.UserID),
	)
	return submission, nil
}

// History returns the status changes of a submission, oldest first.
func (s *SubmissionService) History(ctx context.Context, id Identity, submissionID uint) ([]models.SubmissionStatusHistory, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if _, err := findSubmission(ctx, s.db, submissionID); err != nil {
		return nil, err
	}
	var history []models.SubmissionStatusHistory
	if err := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC, id ASC").
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	return history, nil
}

type statusChange struct {
	changedBy uint
	source    string
	reviewID  *uint
}

// applyStatus writes the new status and its history row on tx. The caller
// owns the transaction; submission is updated in place on success.
func (s *SubmissionService) applyStatus(tx *gorm.DB, submission *models.Submission, status models.SubmissionStatus, change statusChange) error {
	if !status.Valid() {
		return apperrors.Validation("Invalid status %q", status)
	}

	// Re-read inside the transaction so the history records the status this
	// write actually replaces.
	current, err := findSubmission(tx.Statement.Context, tx, submission.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := tx.Model(&models.Submission{}).
		Where("id = ?", submission.ID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}).Error; err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	history := models.SubmissionStatusHistory{
		SubmissionID: submission.ID,
		OldStatus:    current.Status,
		NewStatus:    status,
		Source:       change.source,
		ReviewID:     change.reviewID,
		CreatedAt:    now,
	}
	if change.changedBy != 0 {
		changedBy := change.changedBy
		history.ChangedBy = &changedBy
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to log status history: %w", err)
	}

	current.Status = status
	current.UpdatedAt = now
	*submission = *current
	return nil
}
