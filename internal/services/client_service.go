package services

import (
	"gorm.io/gorm"

	"github.com/truexpanse/mat-data-service/internal/models"
)

// ListClients returns closed accounts, optionally scoped to one user.
// Managers pass an empty userID for the team view.
func ListClients(db *gorm.DB, userID string) ([]models.Client, error) {
	q := db.Order("close_date")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient records a closed account owned by userID.
func CreateClient(db *gorm.DB, userID string, client *models.Client) error {
	client.UserID = userID
	return db.Create(client).Error
}
