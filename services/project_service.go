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

const (
	maxProjectNameLength        = 255
	maxProjectDescriptionLength = 5000
)

// ProjectInput is the payload for project creation.
type ProjectInput struct {
	Name        string
	Description string
}

// ProjectUpdate carries the fields to change; nil fields are left untouched.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// ProjectService owns projects and the project membership relation.
type ProjectService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProjectService(db *gorm.DB, logger *zap.Logger) *ProjectService {
	return &ProjectService{db: resolveDB(db), logger: resolveLogger(logger)}
}

func validateProjectName(name string) (string, error) {
	name = utils.SanitizeInput(name)
	if name == "" {
		return "", apperrors.Validation("Project name is required")
	}
	if utils.CharLength(name) > maxProjectNameLength {
		return "", apperrors.Validation("Project name must be at most %d characters", maxProjectNameLength)
	}
	return name, nil
}

func validateProjectDescription(description string) (string, error) {
	description = utils.SanitizeInput(description)
	if utils.CharLength(description) > maxProjectDescriptionLength {
		return "", apperrors.Validation("Project description must be at most %d characters", maxProjectDescriptionLength)
	}
	return description, nil
}

// Create stores a new project owned by the caller.
func (s *ProjectService) Create(ctx context.Context, id Identity, input ProjectInput) (*models.Project, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	name, err := validateProjectName(input.Name)
	if err != nil {
		return nil, err
	}
	description, err := validateProjectDescription(input.Description)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapCreateProject, ResourceFacts{}); err != nil {
		return nil, err
	}

	project := models.Project{
		Name:        name,
		Description: description,
		CreatedBy:   id.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

func (s *ProjectService) Get(ctx context.Context, id Identity, projectID uint) (*models.Project, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	return findProject(ctx, s.db, projectID)
}

func (s *ProjectService) List(ctx context.Context, id Identity) ([]models.Project, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListOwned returns the projects created by the caller.
func (s *ProjectService) ListOwned(ctx context.Context, id Identity) ([]models.Project, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := s.db.WithContext(ctx).
		Where("created_by = ?", id.UserID).
		Order("id ASC").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list owned projects: %w", err)
	}
	return projects, nil
}

// ListMemberships returns the projects the caller has joined as a member.
func (s *ProjectService) ListMemberships(ctx context.Context, id Identity) ([]models.Project, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := s.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", id.UserID).
		Order("projects.id ASC").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Update(ctx context.Context, id Identity, projectID uint, update ProjectUpdate) (*models.Project, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	changes := map[string]interface{}{}
	if update.Name != nil {
		name, err := validateProjectName(*update.Name)
		if err != nil {
			return nil, err
		}
		changes["name"] = name
	}
	if update.Description != nil {
		description, err := validateProjectDescription(*update.Description)
		if err != nil {
			return nil, err
		}
		changes["description"] = description
	}

	project, err := findProject(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapManageProject, ResourceFacts{ProjectOwnerID: project.CreatedBy}); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return project, nil
	}

	changes["updated_at"] = time.Now()
	if err := s.db.WithContext(ctx).Model(project).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return findProject(ctx, s.db, projectID)
}

// Delete removes the project with its members and submissions.
func (s *ProjectService) Delete(ctx context.Context, id Identity, projectID uint) error {
	if err := RequireIdentity(id); err != nil {
		return err
	}
	project, err := findProject(ctx, s.db, projectID)
	if err != nil {
		return err
	}
	if err := Authorize(id, CapManageProject, ResourceFacts{ProjectOwnerID: project.CreatedBy}); err != nil {
		return err
	}

	if err := s.db.WithContext(persistentContext(ctx)).Transaction(func(tx *gorm.DB) error {
		return deleteProjectTree(tx, []uint{project.ID})
	}); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		zap.Uint("project_id", project.ID),
		zap.Uint("deleted_by", id.UserID),
	)
	return nil
}

// AddMember grants userID membership of the project.
func (s *ProjectService) AddMember(ctx context.Context, id Identity, projectID, userID uint) (*models.ProjectMember, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, apperrors.Validation("User ID is required")
	}

	project, err := findProject(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapManageMembers, ResourceFacts{ProjectOwnerID: project.CreatedBy}); err != nil {
		return nil, err
	}
	if _, err := findUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	if project.IsOwner(userID) {
		return nil, apperrors.Validation("The project owner cannot be added as a member")
	}

	member := models.ProjectMember{ProjectID: project.ID, UserID: userID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := isProjectMember(ctx, tx, project.ID, userID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict("User is already a member of this project")
		}
		if err := tx.Create(&member).Error; err != nil {
			return translateWriteError(err, "User is already a member of this project")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, id Identity, projectID, userID uint) error {
	if err := RequireIdentity(id); err != nil {
		return err
	}
	project, err := findProject(ctx, s.db, projectID)
	if err != nil {
		return err
	}
	if err := Authorize(id, CapManageMembers, ResourceFacts{ProjectOwnerID: project.CreatedBy}); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", project.ID, userID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Member")
	}
	return nil
}

// ListMembers returns the users holding a membership row. The owner is not
// included unless they were added explicitly, which AddMember forbids.
func (s *ProjectService) ListMembers(ctx context.Context, id Identity, projectID uint) ([]models.User, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if _, err := findProject(ctx, s.db, projectID); err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.user_id = users.id").
		Where("project_members.project_id = ?", projectID).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return users, nil
}
