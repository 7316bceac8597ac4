package repository

import (
	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all users, oldest first
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete deletes a user and all tasks they own in one transaction, so no
// task can be left referencing a removed owner.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// Overview computes system-wide user counts
func (r *GormUserRepository) Overview() (UserOverview, error) {
	var overview UserOverview

	if err := r.db.Model(&models.User{}).Count(&overview.Total).Error; err != nil {
		return UserOverview{}, err
	}
	if err := r.db.Model(&models.User{}).Where("is_active = ?", true).Count(&overview.Active).Error; err != nil {
		return UserOverview{}, err
	}
	if err := r.db.Model(&models.User{}).Where("is_active = ?", false).Count(&overview.Inactive).Error; err != nil {
		return UserOverview{}, err
	}
	if err := r.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&overview.Admins).Error; err != nil {
		return UserOverview{}, err
	}

	return overview, nil
}
