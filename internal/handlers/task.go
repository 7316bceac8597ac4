package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Tharunsai123/task-manager-backend/internal/dto"
	apierrors "github.com/Tharunsai123/task-manager-backend/internal/errors"
	"github.com/Tharunsai123/task-manager-backend/internal/middleware"
	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/Tharunsai123/task-manager-backend/internal/services"
	"github.com/Tharunsai123/task-manager-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks with filtering and pagination
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		OwnerID:  userID,
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	// completed is tri-state: absent means no filter
	if completedStr := c.Query("completed"); completedStr != "" {
		completed, err := strconv.ParseBool(completedStr)
		if err != nil {
			apierrors.BadRequest(c, "completed must be true or false")
			return
		}
		input.Completed = &completed
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the current user. Any owner field
// on the wire is ignored.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description" binding:"required"`
		Priority    string              `json:"priority"`
		Category    string              `json:"category"`
		DueDate     *time.Time          `json:"due_date"`
		Tags        []string            `json:"tags"`
		Attachments []models.Attachment `json:"attachments"`
		Subtasks    []models.Subtask    `json:"subtasks"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body: title and description are required")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Attachments: req.Attachments,
		Subtasks:    req.Subtasks,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task. Only fields present in the
// body are touched; an explicit null due_date clears the date.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	fieldErr := func(field string) {
		apierrors.BadRequest(c, "Invalid value for field "+field)
	}

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			fieldErr("title")
			return
		}
		input.Title = &title
	}
	if v, ok := raw["description"]; ok {
		var description string
		if err := json.Unmarshal(v, &description); err != nil {
			fieldErr("description")
			return
		}
		input.Description = &description
	}
	if v, ok := raw["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(v, &completed); err != nil {
			fieldErr("completed")
			return
		}
		input.Completed = &completed
	}
	if v, ok := raw["priority"]; ok {
		var priority string
		if err := json.Unmarshal(v, &priority); err != nil {
			fieldErr("priority")
			return
		}
		input.Priority = &priority
	}
	if v, ok := raw["category"]; ok {
		var category string
		if err := json.Unmarshal(v, &category); err != nil {
			fieldErr("category")
			return
		}
		input.Category = &category
	}
	if v, ok := raw["due_date"]; ok {
		if string(v) == "null" {
			input.ClearDueDate = true
		} else {
			var dueDate time.Time
			if err := json.Unmarshal(v, &dueDate); err != nil {
				fieldErr("due_date")
				return
			}
			input.DueDate = &dueDate
		}
	}
	if v, ok := raw["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(v, &tags); err != nil {
			fieldErr("tags")
			return
		}
		input.Tags = &tags
	}
	if v, ok := raw["attachments"]; ok {
		var attachments []models.Attachment
		if err := json.Unmarshal(v, &attachments); err != nil {
			fieldErr("attachments")
			return
		}
		input.Attachments = &attachments
	}
	if v, ok := raw["subtasks"]; ok {
		var subtasks []models.Subtask
		if err := json.Unmarshal(v, &subtasks); err != nil {
			fieldErr("subtasks")
			return
		}
		input.Subtasks = &subtasks
	}

	task, err := h.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task owned by the current user
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GetStats returns the current user's task statistics
func (h *TaskHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	overview, categories, err := h.taskService.GetStats(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskStatsResponse{
		Overview:   overview,
		Categories: categories,
	})
}

// ShareTask copies a task to another user identified by email
func (h *TaskHandler) ShareTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	type ShareTaskRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req ShareTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A valid recipient email is required")
		return
	}

	shared, err := h.taskService.ShareTask(taskID, userID, req.Email)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task shared successfully",
		"task":    dto.ToTaskDTO(*shared),
	})
}

// DuplicateTask creates an independent copy of a task for the current user
func (h *TaskHandler) DuplicateTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	duplicate, err := h.taskService.DuplicateTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*duplicate))
}

// ExportTasks returns every task owned by the current user
func (h *TaskHandler) ExportTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ExportTasks(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	items := dto.ToTaskDTOs(tasks)
	c.JSON(http.StatusOK, dto.TaskExportResponse{
		Count: len(items),
		Tasks: items,
	})
}

// ImportTasks inserts a batch of tasks for the current user. The payload
// must be a JSON array; the import is all-or-nothing.
func (h *TaskHandler) ImportTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var records []services.ImportTaskRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		apierrors.BadRequest(c, "Import payload must be a JSON array of tasks")
		return
	}

	count, err := h.taskService.ImportTasks(userID, records)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Tasks imported successfully",
		"imported": count,
	})
}

// taskRequestIDs extracts the authenticated user ID and the :id route param
func taskRequestIDs(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	return userID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrDescriptionEmpty),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrEmptyImport),
		errors.Is(err, services.ErrInvalidImportRecord):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrRecipientNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
