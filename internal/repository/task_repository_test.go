package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskRepo(t *testing.T) (TaskRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewTaskRepository(db), db
}

func seedTask(t *testing.T, db *gorm.DB, ownerID uint64, title, category string, priority models.TaskPriority, completed bool) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:       title,
		Description: "d",
		Completed:   completed,
		Priority:    priority,
		Category:    category,
		OwnerID:     ownerID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestList_ZeroOwnerReturnsEmpty(t *testing.T) {
	repo, db := setupTaskRepo(t)
	seedTask(t, db, 1, "Someone's task", "general", models.PriorityMedium, false)

	tasks, total, err := repo.List(TaskFilter{OwnerID: 0})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)
}

func TestList_CombinedFilters(t *testing.T) {
	repo, db := setupTaskRepo(t)
	seedTask(t, db, 1, "Pay rent", "finance", models.PriorityHigh, false)
	seedTask(t, db, 1, "Pay insurance", "finance", models.PriorityHigh, true)
	seedTask(t, db, 1, "Water plants", "home", models.PriorityHigh, false)
	seedTask(t, db, 2, "Pay taxes", "finance", models.PriorityHigh, false)

	completed := false
	priority := models.PriorityHigh
	tasks, total, err := repo.List(TaskFilter{
		OwnerID:   1,
		Completed: &completed,
		Priority:  &priority,
		Category:  "finance",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Pay rent", tasks[0].Title)
}

func TestList_TotalCountsBeyondPage(t *testing.T) {
	repo, db := setupTaskRepo(t)
	for i := 0; i < 5; i++ {
		seedTask(t, db, 1, "Task", "general", models.PriorityMedium, false)
	}

	tasks, total, err := repo.List(TaskFilter{
		OwnerID:  1,
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, tasks, 2)
}

func TestDelete_IsSoftDelete(t *testing.T) {
	repo, db := setupTaskRepo(t)
	task := seedTask(t, db, 1, "Doomed", "general", models.PriorityMedium, false)

	require.NoError(t, repo.Delete(task.ID))

	_, err := repo.FindByID(task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// row is retained with a deletion timestamp
	var raw models.Task
	require.NoError(t, db.Unscoped().First(&raw, task.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
}

func TestStatsByOwner_IgnoresOtherOwners(t *testing.T) {
	repo, db := setupTaskRepo(t)
	seedTask(t, db, 1, "Mine", "general", models.PriorityHigh, true)
	seedTask(t, db, 1, "Mine too", "general", models.PriorityLow, false)
	seedTask(t, db, 2, "Theirs", "general", models.PriorityHigh, false)

	stats, err := repo.StatsByOwner(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.HighPriority)
	assert.Equal(t, int64(1), stats.LowPriority)
	assert.Equal(t, int64(0), stats.MediumPriority)
}

func TestCategoriesByOwner_SortedByName(t *testing.T) {
	repo, db := setupTaskRepo(t)
	seedTask(t, db, 1, "A", "work", models.PriorityMedium, false)
	seedTask(t, db, 1, "B", "finance", models.PriorityMedium, false)
	seedTask(t, db, 1, "C", "finance", models.PriorityMedium, false)

	categories, err := repo.CategoriesByOwner(1)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "finance", categories[0].Category)
	assert.Equal(t, int64(2), categories[0].Count)
	assert.Equal(t, "work", categories[1].Category)
	assert.Equal(t, int64(1), categories[1].Count)
}

func TestList_PropagatesQueryError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	queryErr := errors.New("connection reset")
	mock.ExpectQuery(".*").WillReturnError(queryErr)

	repo := NewTaskRepository(db)
	_, _, err = repo.List(TaskFilter{OwnerID: 1})
	assert.ErrorIs(t, err, queryErr)
}
