package services

import (
	"context"
	"errors"
	"fmt"

	"code-review-api/apperrors"
	"code-review-api/models"
	"code-review-api/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput is the payload for account registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// AuthService is the credential side of the identity boundary. The review
// core never sees passwords; it only receives the Identity derived from a
// verified token.
type AuthService struct {
	db         *gorm.DB
	logger     *zap.Logger
	bcryptCost int
}

func NewAuthService(db *gorm.DB, logger *zap.Logger) *AuthService {
	return &AuthService{db: resolveDB(db), logger: resolveLogger(logger), bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// HashPassword hashes password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name, err := validateUserName(input.Name)
	if err != nil {
		return nil, err
	}
	email, err := validateEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if ok, msg := utils.ValidatePassword(input.Password); !ok {
		return nil, apperrors.Validation("%s", msg)
	}
	if err := validateRole(input.Role); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     input.Role,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(ctx, tx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("User with this email already exists")
		}
		if err := tx.Create(&user).Error; err != nil {
			return translateWriteError(err, "User with this email already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &user, nil
}

// Authenticate checks credentials. Unknown email and wrong password produce
// the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation("Email and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated("Invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !CheckPasswordHash(password, user.Password) {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}
	return &user, nil
}
