package repository

import (
	"strings"

	"github.com/Tharunsai123/task-manager-backend/internal/database"
	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/Tharunsai123/task-manager-backend/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// CreateBatch inserts multiple tasks in a single batch. Either every row is
// inserted or the statement fails as a whole.
func (r *GormTaskRepository) CreateBatch(tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.Create(&tasks).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	if filter.OwnerID == 0 {
		return []models.Task{}, 0, nil
	}

	query := r.db.Model(&models.Task{}).Where("tasks.owner_id = ?", filter.OwnerID)

	// Apply filters
	if filter.Completed != nil {
		query = query.Where("tasks.completed = ?", *filter.Completed)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("tasks.category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	listQuery = listQuery.Order("tasks." + sortBy + " " + direction)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListAllByOwner retrieves every task owned by a user, newest first
func (r *GormTaskRepository) ListAllByOwner(ownerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// StatsByOwner computes the per-owner overview counts. Pending is counted
// directly from completed = false rather than derived by subtraction.
func (r *GormTaskRepository) StatsByOwner(ownerID uint64) (TaskOverview, error) {
	var stats TaskOverview

	base := func() *gorm.DB {
		return r.db.Model(&models.Task{}).Where("owner_id = ?", ownerID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return TaskOverview{}, err
	}
	if err := base().Where("completed = ?", true).Count(&stats.Completed).Error; err != nil {
		return TaskOverview{}, err
	}
	if err := base().Where("completed = ?", false).Count(&stats.Pending).Error; err != nil {
		return TaskOverview{}, err
	}

	var priorityRows []struct {
		Priority models.TaskPriority
		Count    int64
	}
	if err := base().
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&priorityRows).Error; err != nil {
		return TaskOverview{}, err
	}

	for _, row := range priorityRows {
		switch row.Priority {
		case models.PriorityHigh:
			stats.HighPriority = row.Count
		case models.PriorityMedium:
			stats.MediumPriority = row.Count
		case models.PriorityLow:
			stats.LowPriority = row.Count
		}
	}

	return stats, nil
}

// CategoriesByOwner computes per-category counts for an owner. Categories
// with no tasks do not appear.
func (r *GormTaskRepository) CategoriesByOwner(ownerID uint64) ([]CategoryCount, error) {
	categories := []CategoryCount{}
	if err := r.db.Model(&models.Task{}).
		Select("category, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("category").
		Order("category ASC").
		Scan(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GlobalSummary computes system-wide task counts across all owners
func (r *GormTaskRepository) GlobalSummary() (TaskSummary, error) {
	var summary TaskSummary

	if err := r.db.Model(&models.Task{}).Count(&summary.Total).Error; err != nil {
		return TaskSummary{}, err
	}
	if err := r.db.Model(&models.Task{}).Where("completed = ?", true).Count(&summary.Completed).Error; err != nil {
		return TaskSummary{}, err
	}
	if err := r.db.Model(&models.Task{}).Where("completed = ?", false).Count(&summary.Pending).Error; err != nil {
		return TaskSummary{}, err
	}

	return summary, nil
}
