package dto

import (
	"time"

	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/Tharunsai123/task-manager-backend/internal/repository"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Completed   bool                `json:"completed"`
	Priority    models.TaskPriority `json:"priority"`
	Category    string              `json:"category"`
	DueDate     *time.Time          `json:"due_date"`
	Tags        []string            `json:"tags"`
	Attachments []models.Attachment `json:"attachments"`
	Subtasks    []models.Subtask    `json:"subtasks"`
	OwnerID     uint64              `json:"owner_id"`
	SharedFrom  *uint64             `json:"shared_from"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// TaskStatsResponse represents the per-user statistics payload
type TaskStatsResponse struct {
	Overview   repository.TaskOverview    `json:"overview"`
	Categories []repository.CategoryCount `json:"categories"`
}

// TaskExportResponse is the self-contained export payload
type TaskExportResponse struct {
	Count int       `json:"count"`
	Tasks []TaskDTO `json:"tasks"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    task.Priority,
		Category:    task.Category,
		DueDate:     task.DueDate,
		Tags:        task.Tags,
		Attachments: task.Attachments,
		Subtasks:    task.Subtasks,
		OwnerID:     task.OwnerID,
		SharedFrom:  task.SharedFrom,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if dto.Attachments == nil {
		dto.Attachments = []models.Attachment{}
	}
	if dto.Subtasks == nil {
		dto.Subtasks = []models.Subtask{}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
