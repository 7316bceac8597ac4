package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Tharunsai123/task-manager-backend/internal/dto"
	apierrors "github.com/Tharunsai123/task-manager-backend/internal/errors"
	"github.com/Tharunsai123/task-manager-backend/internal/middleware"
	"github.com/Tharunsai123/task-manager-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler coordinates admin user-management HTTP handlers. All routes
// behind it are gated by middleware.RequireAdmin.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all registered users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondUserError(c, err)
		return
	}

	items := dto.ToUserDTOs(users)
	c.JSON(http.StatusOK, dto.UserListResponse{
		Count: len(items),
		Users: items,
	})
}

// GetUser returns a user together with their task statistics
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, ok := userParamID(c)
	if !ok {
		return
	}

	user, stats, err := h.userService.GetUserWithStats(targetID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserDetailResponse{
		User:      dto.ToUserDTO(*user),
		TaskStats: stats,
	})
}

// UpdateUser applies a partial admin update to a user record
func (h *UserHandler) UpdateUser(c *gin.Context) {
	targetID, ok := userParamID(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
		Password *string `json:"password"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(targetID, services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: req.IsActive,
		Password: req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user and all tasks they own
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, ok := userParamID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(targetID, actorID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User and associated tasks deleted successfully",
	})
}

// ToggleActive flips a user's active flag
func (h *UserHandler) ToggleActive(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, ok := userParamID(c)
	if !ok {
		return
	}

	user, err := h.userService.ToggleActive(targetID, actorID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user":    dto.ToUserDTO(*user),
	})
}

// GetOverview returns system-wide user and task statistics
func (h *UserHandler) GetOverview(c *gin.Context) {
	users, tasks, err := h.userService.Overview()
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AdminOverviewResponse{
		Users: users,
		Tasks: tasks,
	})
}

func userParamID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, false
	}
	return id, true
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCannotModifySelf):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
