package repository

import (
	"github.com/Tharunsai123/task-manager-backend/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// CreateBatch inserts multiple tasks in a single batch
	CreateBatch(tasks []*models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListAllByOwner retrieves every task owned by a user, newest first
	ListAllByOwner(ownerID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// StatsByOwner computes the per-owner overview counts
	StatsByOwner(ownerID uint64) (TaskOverview, error)

	// CategoriesByOwner computes per-category counts for an owner
	CategoriesByOwner(ownerID uint64) ([]CategoryCount, error)

	// GlobalSummary computes system-wide task counts across all owners
	GlobalSummary() (TaskSummary, error)
}

// TaskFilter holds filtering options for listing tasks.
// OwnerID is mandatory: the repository returns nothing for a zero owner,
// so no caller can accidentally list across owners.
type TaskFilter struct {
	OwnerID   uint64
	Completed *bool
	Priority  *models.TaskPriority
	Category  string
	Search    string
	SortBy    string
	SortDesc  bool
	Page      int
	PageSize  int
}

// TaskOverview holds the per-owner statistics counts
type TaskOverview struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	Pending        int64 `json:"pending"`
	HighPriority   int64 `json:"high_priority"`
	MediumPriority int64 `json:"medium_priority"`
	LowPriority    int64 `json:"low_priority"`
}

// TaskSummary holds completion counts without the priority breakdown
type TaskSummary struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// CategoryCount is one entry of the per-category breakdown
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// UserOverview holds system-wide user counts
type UserOverview struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Admins   int64 `json:"admins"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves all users
	List() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete deletes a user and all tasks they own in one transaction
	Delete(id uint64) error

	// Overview computes system-wide user counts
	Overview() (UserOverview, error)
}
