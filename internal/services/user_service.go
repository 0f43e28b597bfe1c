package services

import (
	"gorm.io/gorm"

	"github.com/truexpanse/mat-data-service/internal/models"
)

// GetUserProfile returns the profile row for id.
func GetUserProfile(db *gorm.DB, id string) (models.User, error) {
	var user models.User
	err := db.Where("id = ?", id).First(&user).Error
	return user, err
}

// ListUsers returns the team roster for manager views.
func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
