package dto

import (
	"time"

	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/Tharunsai123/task-manager-backend/internal/repository"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// UserDetailResponse is a user plus their task completion counts
type UserDetailResponse struct {
	User      UserDTO                `json:"user"`
	TaskStats repository.TaskSummary `json:"task_stats"`
}

// UserListResponse is the admin user listing payload
type UserListResponse struct {
	Count int       `json:"count"`
	Users []UserDTO `json:"users"`
}

// AdminOverviewResponse is the system-wide statistics payload
type AdminOverviewResponse struct {
	Users repository.UserOverview `json:"users"`
	Tasks repository.TaskSummary  `json:"tasks"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}
