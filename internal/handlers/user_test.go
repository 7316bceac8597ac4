package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tharunsai123/task-manager-backend/internal/constants"
	"github.com/Tharunsai123/task-manager-backend/internal/dto"
	"github.com/Tharunsai123/task-manager-backend/internal/middleware"
	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/Tharunsai123/task-manager-backend/internal/repository"
	"github.com/Tharunsai123/task-manager-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type userTestEnv struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	handler  *UserHandler
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	handler := NewUserHandler(services.NewUserService(userRepo, taskRepo))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)

	return userTestEnv{
		db:       db,
		userRepo: userRepo,
		handler:  handler,
	}
}

func (env userTestEnv) createUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env userTestEnv) authContext(t *testing.T, method, url string, body []byte, actorID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, actorID)

	return c, w
}

func TestUserHandler_ListUsers(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	env.createUser(t, "alice@example.com", models.RoleUser)

	c, w := env.authContext(t, http.MethodGet, "/api/users", nil, admin.ID)

	env.handler.ListUsers(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	assert.Len(t, response.Users, 2)
}

func TestUserHandler_GetUser_WithStats(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "alice@example.com", models.RoleUser)

	require.NoError(t, env.db.Create(&models.Task{
		Title:       "Done",
		Description: "d",
		Completed:   true,
		Priority:    models.PriorityMedium,
		Category:    "general",
		OwnerID:     alice.ID,
	}).Error)

	c, w := env.authContext(t, http.MethodGet, "/api/users/1", nil, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", alice.ID)}}

	env.handler.GetUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, alice.ID, response.User.ID)
	assert.Equal(t, int64(1), response.TaskStats.Total)
	assert.Equal(t, int64(1), response.TaskStats.Completed)
	assert.Equal(t, int64(0), response.TaskStats.Pending)
}

func TestUserHandler_UpdateUser(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "alice@example.com", models.RoleUser)

	body, err := json.Marshal(map[string]interface{}{
		"role": "admin",
		"name": "Promoted",
	})
	require.NoError(t, err)

	c, w := env.authContext(t, http.MethodPut, "/api/users/1", body, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", alice.ID)}}

	env.handler.UpdateUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, models.RoleAdmin, response.Role)
	assert.Equal(t, "Promoted", response.Name)
}

func TestUserHandler_DeleteUser(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "alice@example.com", models.RoleUser)

	require.NoError(t, env.db.Create(&models.Task{
		Title:       "Orphan",
		Description: "d",
		Priority:    models.PriorityMedium,
		Category:    "general",
		OwnerID:     alice.ID,
	}).Error)

	c, w := env.authContext(t, http.MethodDelete, "/api/users/1", nil, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", alice.ID)}}

	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.Task{}).Where("owner_id = ?", alice.ID).Count(&count)
	assert.Zero(t, count)
}

func TestUserHandler_DeleteUser_SelfForbidden(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)

	c, w := env.authContext(t, http.MethodDelete, "/api/users/1", nil, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", admin.ID)}}

	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_ToggleActive(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "alice@example.com", models.RoleUser)

	c, w := env.authContext(t, http.MethodPatch, "/api/users/1/toggle-active", nil, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", alice.ID)}}

	env.handler.ToggleActive(c)

	require.Equal(t, http.StatusOK, w.Code)

	var refreshed models.User
	require.NoError(t, env.db.First(&refreshed, alice.ID).Error)
	assert.False(t, refreshed.IsActive)
}

func TestUserHandler_GetOverview(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "alice@example.com", models.RoleUser)

	require.NoError(t, env.db.Create(&models.Task{
		Title:       "Pending",
		Description: "d",
		Priority:    models.PriorityMedium,
		Category:    "general",
		OwnerID:     alice.ID,
	}).Error)

	c, w := env.authContext(t, http.MethodGet, "/api/users/stats/overview", nil, admin.ID)

	env.handler.GetOverview(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AdminOverviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(2), response.Users.Total)
	assert.Equal(t, int64(1), response.Users.Admins)
	assert.Equal(t, int64(1), response.Tasks.Total)
	assert.Equal(t, int64(1), response.Tasks.Pending)
}

func TestUserRoutes_RequireAdmin(t *testing.T) {
	env := setupUserTestEnv(t)
	regular := env.createUser(t, "regular@example.com", models.RoleUser)

	r := gin.New()
	r.GET("/api/users",
		func(c *gin.Context) { c.Set(constants.ContextKeyUserID, regular.ID) },
		middleware.RequireAdmin(env.userRepo),
		env.handler.ListUsers,
	)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}
