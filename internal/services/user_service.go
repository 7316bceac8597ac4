package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tharunsai123/task-manager-backend/internal/constants"
	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/Tharunsai123/task-manager-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCannotModifySelf = errors.New("admins cannot delete or deactivate their own account")
	ErrInvalidRole      = errors.New("role must be one of user, admin")
)

// UserService handles user administration business logic. Every operation
// here is reachable only through the admin role gate; admin privilege stops
// at user management and never extends to task ownership.
type UserService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// ListUsers returns all registered users
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUserWithStats returns a user together with their task completion counts
func (s *UserService) GetUserWithStats(userID uint64) (*models.User, repository.TaskSummary, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, repository.TaskSummary{}, err
	}

	overview, err := s.taskRepo.StatsByOwner(userID)
	if err != nil {
		return nil, repository.TaskSummary{}, fmt.Errorf("failed to compute task stats: %w", err)
	}

	summary := repository.TaskSummary{
		Total:     overview.Total,
		Completed: overview.Completed,
		Pending:   overview.Pending,
	}

	return user, summary, nil
}

// UpdateUserInput represents a partial admin update of a user record
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *string
	IsActive *bool
	Password *string
}

// UpdateUser applies a partial update to a user record
func (s *UserService) UpdateUser(userID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		user.Name = *input.Name
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}
	if input.Role != nil {
		role := models.UserRole(*input.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user and cascades to every task they own. Admins may
// not delete their own account.
func (s *UserService) DeleteUser(targetID, actorID uint64) error {
	if targetID == actorID {
		return ErrCannotModifySelf
	}

	user, err := s.findUser(targetID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ToggleActive flips a user's active flag. Admins may not deactivate their
// own account.
func (s *UserService) ToggleActive(targetID, actorID uint64) (*models.User, error) {
	if targetID == actorID {
		return nil, ErrCannotModifySelf
	}

	user, err := s.findUser(targetID)
	if err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Overview computes the system-wide user and task counts
func (s *UserService) Overview() (repository.UserOverview, repository.TaskSummary, error) {
	users, err := s.userRepo.Overview()
	if err != nil {
		return repository.UserOverview{}, repository.TaskSummary{}, fmt.Errorf("failed to compute user stats: %w", err)
	}

	tasks, err := s.taskRepo.GlobalSummary()
	if err != nil {
		return repository.UserOverview{}, repository.TaskSummary{}, fmt.Errorf("failed to compute task stats: %w", err)
	}

	return users, tasks, nil
}

func (s *UserService) findUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
