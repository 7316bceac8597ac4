package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tharunsai123/task-manager-backend/internal/constants"
	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/Tharunsai123/task-manager-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleEmpty           = errors.New("title cannot be empty")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrDescriptionEmpty     = errors.New("description cannot be empty")
	ErrInvalidPriority      = errors.New("priority must be one of low, medium, high")
	ErrRecipientNotFound    = errors.New("recipient user not found")
	ErrEmptyImport          = errors.New("import payload must contain at least one task")
	ErrInvalidImportRecord  = errors.New("invalid import record")
)

// sortColumns maps request sort keys to task table columns. Anything not in
// this table falls back to creation time, descending.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"priority":  "priority",
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	OwnerID   uint64
	Completed *bool
	Priority  string
	Category  string
	Search    string
	Sort      string
	Page      int
	PageSize  int
}

// ListTasks returns the requesting user's tasks matching the filters.
// The owner constraint is part of the filter itself, never a separate check.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:   input.OwnerID,
		Completed: input.Completed,
		Category:  input.Category,
		Search:    input.Search,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	if input.Priority != "" {
		priority := models.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, 0, ErrInvalidPriority
		}
		filter.Priority = &priority
	}

	filter.SortBy, filter.SortDesc = resolveSort(input.Sort)

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// resolveSort translates a request sort key ("dueDate", "-title", ...) into
// a whitelisted column and direction.
func resolveSort(sort string) (string, bool) {
	desc := false
	key := sort
	if strings.HasPrefix(key, "-") {
		desc = true
		key = key[1:]
	}

	column, ok := sortColumns[key]
	if !ok {
		return "created_at", true
	}
	return column, desc
}

// GetTask returns a task if it exists and is owned by the requester.
// Foreign-owner access collapses to ErrTaskNotFound so callers cannot probe
// for other users' task IDs.
func (s *TaskService) GetTask(taskID, ownerID uint64) (*models.Task, error) {
	return s.getOwnedTask(taskID, ownerID)
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID     uint64
	Title       string
	Description string
	Priority    string
	Category    string
	DueDate     *time.Time
	Tags        []string
	Attachments []models.Attachment
	Subtasks    []models.Subtask
}

// CreateTask creates a new task with validation and field defaults. The
// owner always comes from the authenticated principal, never from the wire.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
	}

	category := input.Category
	if category == "" {
		category = constants.DefaultCategory
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		Category:    category,
		DueDate:     input.DueDate,
		Tags:        tags,
		Attachments: input.Attachments,
		Subtasks:    input.Subtasks,
		OwnerID:     input.OwnerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched; ClearDueDate distinguishes "set to null" from "not provided".
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *string
	Category     *string
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *[]string
	Attachments  *[]models.Attachment
	Subtasks     *[]models.Subtask
}

// UpdateTask applies a partial update to a task owned by the requester
func (s *TaskService) UpdateTask(taskID, ownerID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.getOwnedTask(taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, ErrDescriptionEmpty
		}
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.Priority != nil {
		priority := models.TaskPriority(*input.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = priority
	}
	if input.Category != nil && *input.Category != "" {
		task.Category = *input.Category
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}
	if input.Attachments != nil {
		task.Attachments = *input.Attachments
	}
	if input.Subtasks != nil {
		task.Subtasks = *input.Subtasks
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task owned by the requester
func (s *TaskService) DeleteTask(taskID, ownerID uint64) error {
	task, err := s.getOwnedTask(taskID, ownerID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GetStats computes the per-user statistics overview and category breakdown.
// Counts reflect store state at call time; a user with no tasks gets an
// all-zero overview and an empty category list.
func (s *TaskService) GetStats(ownerID uint64) (repository.TaskOverview, []repository.CategoryCount, error) {
	overview, err := s.taskRepo.StatsByOwner(ownerID)
	if err != nil {
		return repository.TaskOverview{}, nil, fmt.Errorf("failed to compute task stats: %w", err)
	}

	categories, err := s.taskRepo.CategoriesByOwner(ownerID)
	if err != nil {
		return repository.TaskOverview{}, nil, fmt.Errorf("failed to compute category stats: %w", err)
	}

	return overview, categories, nil
}

// ShareTask copies a task the requester owns to another user, resolved by
// email. The copy is a fresh record owned by the recipient; shared_from
// records the provenance and the source task is untouched.
func (s *TaskService) ShareTask(taskID, ownerID uint64, recipientEmail string) (*models.Task, error) {
	task, err := s.getOwnedTask(taskID, ownerID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.FindByEmail(recipientEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to find recipient: %w", err)
	}

	sharedFrom := task.OwnerID
	shared := &models.Task{
		Title:       constants.SharedTitlePrefix + task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Category:    task.Category,
		DueDate:     task.DueDate,
		Tags:        cloneTags(task.Tags),
		OwnerID:     recipient.ID,
		SharedFrom:  &sharedFrom,
	}

	if err := s.taskRepo.Create(shared); err != nil {
		return nil, fmt.Errorf("failed to create shared task: %w", err)
	}

	return shared, nil
}

// DuplicateTask creates an independent copy of a task for the same owner,
// with completion reset.
func (s *TaskService) DuplicateTask(taskID, ownerID uint64) (*models.Task, error) {
	task, err := s.getOwnedTask(taskID, ownerID)
	if err != nil {
		return nil, err
	}

	duplicate := &models.Task{
		Title:       task.Title + constants.DuplicateTitleSuffix,
		Description: task.Description,
		Completed:   false,
		Priority:    task.Priority,
		Category:    task.Category,
		DueDate:     task.DueDate,
		Tags:        cloneTags(task.Tags),
		Attachments: task.Attachments,
		Subtasks:    task.Subtasks,
		OwnerID:     task.OwnerID,
	}

	if err := s.taskRepo.Create(duplicate); err != nil {
		return nil, fmt.Errorf("failed to create duplicate task: %w", err)
	}

	return duplicate, nil
}

// ExportTasks returns every task owned by the requester
func (s *TaskService) ExportTasks(ownerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAllByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to export tasks: %w", err)
	}
	return tasks, nil
}

// ImportTaskRecord is one task-like record of a bulk import payload
type ImportTaskRecord struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
}

// ImportTasks inserts a batch of tasks for the requester. Validation is
// all-or-nothing: any invalid record fails the whole import and nothing is
// inserted. Ownership on the wire is ignored; every row belongs to ownerID.
func (s *TaskService) ImportTasks(ownerID uint64, records []ImportTaskRecord) (int, error) {
	if len(records) == 0 {
		return 0, ErrEmptyImport
	}

	tasks := make([]*models.Task, 0, len(records))
	for i, record := range records {
		if strings.TrimSpace(record.Title) == "" {
			return 0, fmt.Errorf("%w: record %d: title is required", ErrInvalidImportRecord, i)
		}
		if strings.TrimSpace(record.Description) == "" {
			return 0, fmt.Errorf("%w: record %d: description is required", ErrInvalidImportRecord, i)
		}

		priority := models.PriorityMedium
		if record.Priority != "" {
			priority = models.TaskPriority(record.Priority)
			if !priority.Valid() {
				return 0, fmt.Errorf("%w: record %d: priority must be one of low, medium, high", ErrInvalidImportRecord, i)
			}
		}

		category := record.Category
		if category == "" {
			category = constants.DefaultCategory
		}

		tags := record.Tags
		if tags == nil {
			tags = []string{}
		}

		tasks = append(tasks, &models.Task{
			Title:       record.Title,
			Description: record.Description,
			Completed:   record.Completed,
			Priority:    priority,
			Category:    category,
			DueDate:     record.DueDate,
			Tags:        tags,
			OwnerID:     ownerID,
		})
	}

	if err := s.taskRepo.CreateBatch(tasks); err != nil {
		return 0, fmt.Errorf("failed to import tasks: %w", err)
	}

	return len(tasks), nil
}

// getOwnedTask loads a task and enforces the ownership guard. Both a
// missing task and a foreign-owner task yield ErrTaskNotFound.
func (s *TaskService) getOwnedTask(taskID, ownerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != ownerID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func cloneTags(tags []string) []string {
	cloned := make([]string, len(tags))
	copy(cloned, tags)
	return cloned
}
