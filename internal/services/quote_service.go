package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/truexpanse/mat-data-service/internal/models"
)

// ListQuotes returns saved quote documents, newest first, optionally scoped
// to one user.
func ListQuotes(db *gorm.DB, userID string) ([]models.Quote, error) {
	q := db.Order("saved_at desc")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var quotes []models.Quote
	if err := q.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// SaveQuote stores a quote document owned by userID, stamping the save time.
func SaveQuote(db *gorm.DB, userID string, quote *models.Quote) error {
	quote.UserID = userID
	quote.SavedAt = time.Now().UTC()
	return db.Create(quote).Error
}

// DeleteQuote removes a saved quote owned by userID.
func DeleteQuote(db *gorm.DB, userID string, quoteID uint64) error {
	result := db.Where("id = ? AND user_id = ?", quoteID, userID).Delete(&models.Quote{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
