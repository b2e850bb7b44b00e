package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "inventory/internal/errors"
	"inventory/internal/models"
)

// loginInterval is how stale last_login may get before a request refreshes it.
const loginInterval = 5 * time.Minute

// userService keeps the console user table in step with authenticated
// requests.
type userService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db, now: time.Now}
}

// Touch records that username is active. A first sighting creates the user
// with the role carried by the token; later ones only move last_login.
// Roles are managed on the users resource once the row exists.
func (s *userService) Touch(ctx context.Context, username string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username is required")
	}
	if !validRole(role) {
		role = models.RoleOperator
	}
	now := s.now()

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Username: username, Role: role, LastLogin: &now}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &user, nil
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.LastLogin != nil && now.Sub(*user.LastLogin) < loginInterval {
		return &user, nil
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrRecordNotFound,
				fmt.Sprintf("User %s not found", username))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func validRole(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleOperator:
		return true
	}
	return false
}
