package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// UserService exposes account registry operations.
type UserService interface {
	Approve(ctx context.Context, actor *model.User, userID uint, role string) (*model.User, error)
	Delete(ctx context.Context, actor *model.User, userID uint) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context, actor *model.User) ([]model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Approve marks a user as approved and sets their role. Admin only.
func (s *userService) Approve(ctx context.Context, actor *model.User, userID uint, role string) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	user.Role = role
	user.IsApproved = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("approve user: %w", err)
	}

	return user, nil
}

// Delete removes a user and every task they created or were assigned. The two
// steps run in one transaction so a failure leaves both tables untouched.
func (s *userService) Delete(ctx context.Context, actor *model.User, userID uint) error {
	if !actor.IsAdmin() {
		return apperrors.ErrAdminOnly
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	return s.repo.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, tasks repository.TaskRepository) error {
		if err := tasks.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("cascade tasks: %w", err)
		}
		if err := users.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns the full roster. Admin only.
func (s *userService) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}
	return s.repo.List(ctx)
}
