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

// UserUpdate is a partial self-service profile update.
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *models.Role
}

type UserService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserService(db *gorm.DB, logger *zap.Logger) *UserService {
	return &UserService{db: resolveDB(db), logger: resolveLogger(logger)}
}

func validateUserName(name string) (string, error) {
	name = utils.SanitizeInput(name)
	if utils.CharLength(name) < 2 {
		return "", apperrors.Validation("Name must be at least 2 characters long")
	}
	return name, nil
}

func validateEmail(email string) (string, error) {
	email = utils.NormalizeEmail(email)
	if !utils.ValidateEmail(email) {
		return "", apperrors.Validation("Valid email is required")
	}
	return email, nil
}

func validateRole(role models.Role) error {
	if !role.Valid() {
		return apperrors.Validation("Role must be either 'reviewer' or 'submitter'")
	}
	return nil
}

func emailTaken(ctx context.Context, db *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64
	q := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (s *UserService) Get(ctx context.Context, id Identity, userID uint) (*models.User, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	return findUser(ctx, s.db, userID)
}

func (s *UserService) List(ctx context.Context, id Identity) ([]models.User, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) ListByRole(ctx context.Context, id Identity, role models.Role) ([]models.User, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update changes the caller's own profile.
func (s *UserService) Update(ctx context.Context, id Identity, userID uint, update UserUpdate) (*models.User, error) {
	if err := RequireIdentity(id); err != nil {
		return nil, err
	}
	changes := map[string]interface{}{}
	if update.Name != nil {
		name, err := validateUserName(*update.Name)
		if err != nil {
			return nil, err
		}
		changes["name"] = name
	}
	if update.Email != nil {
		email, err := validateEmail(*update.Email)
		if err != nil {
			return nil, err
		}
		changes["email"] = email
	}
	if update.Role != nil {
		if err := validateRole(*update.Role); err != nil {
			return nil, err
		}
		changes["role"] = *update.Role
	}

	user, err := findUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, CapEditUser, ResourceFacts{AuthorID: user.ID}); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return user, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if email, ok := changes["email"].(string); ok {
			taken, err := emailTaken(ctx, tx, email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.Conflict("Email already in use")
			}
		}
		changes["updated_at"] = time.Now()
		if err := tx.Model(user).Updates(changes).Error; err != nil {
			return translateWriteError(err, "Email already in use")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return findUser(ctx, s.db, userID)
}

// Delete removes the caller's own account. Memberships and comments go with
// it, owned projects and authored submissions are deleted with their
// dependents, and reviews stay in the ledger with no reviewer.
func (s *UserService) Delete(ctx context.Context, id Identity, userID uint) error {
	if err := RequireIdentity(id); err != nil {
		return err
	}
	user, err := findUser(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if err := Authorize(id, CapEditUser, ResourceFacts{AuthorID: user.ID}); err != nil {
		return err
	}

	err = s.db.WithContext(persistentContext(ctx)).Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint
		if err := tx.Model(&models.Project{}).Where("created_by = ?", user.ID).Pluck("id", &projectIDs).Error; err != nil {
			return fmt.Errorf("failed to list owned projects: %w", err)
		}
		if err := deleteProjectTree(tx, projectIDs); err != nil {
			return err
		}

		var submissionIDs []uint
		if err := tx.Model(&models.Submission{}).Where("user_id = ?", user.ID).Pluck("id", &submissionIDs).Error; err != nil {
			return fmt.Errorf("failed to list authored submissions: %w", err)
		}
		if err := deleteSubmissionTree(tx, submissionIDs); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}
		if err := tx.Where("reviewer_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Model(&models.Review{}).Where("reviewer_id = ?", user.ID).Update("reviewer_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach reviews: %w", err)
		}
		if err := tx.Model(&models.SubmissionStatusHistory{}).Where("changed_by = ?", user.ID).Update("changed_by", nil).Error; err != nil {
			return fmt.Errorf("failed to detach status history: %w", err)
		}
		if err := tx.Delete(user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Uint("user_id", user.ID))
	return nil
}
