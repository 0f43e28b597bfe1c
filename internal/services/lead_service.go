package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/truexpanse/mat-data-service/internal/models"
)

// ListHotLeads returns the pipeline, optionally scoped to one user.
func ListHotLeads(db *gorm.DB, userID string) ([]models.HotLead, error) {
	q := db.Order("date_added")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var leads []models.HotLead
	if err := q.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// CreateHotLead inserts a lead owned by userID, assigning its id.
func CreateHotLead(db *gorm.DB, userID string, lead *models.HotLead) error {
	if userID == "" {
		return fmt.Errorf("missing user id for lead create")
	}
	lead.ID = uuid.NewString()
	lead.UserID = userID
	return db.Create(lead).Error
}

// UpdateHotLead replaces a lead's mutable fields. Ownership is enforced:
// a user can only touch their own pipeline.
func UpdateHotLead(db *gorm.DB, userID string, lead *models.HotLead) error {
	result := db.Model(&models.HotLead{}).
		Where("id = ? AND user_id = ?", lead.ID, userID).
		Updates(map[string]interface{}{
			"name":                 lead.Name,
			"company":              lead.Company,
			"phone":                lead.Phone,
			"email":                lead.Email,
			"interest_level":       lead.InterestLevel,
			"prospecting":          lead.Prospecting,
			"date_added":           lead.DateAdded,
			"appointment_date":     lead.AppointmentDate,
			"completed_follow_ups": lead.CompletedFollowUps,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteHotLead removes a lead owned by userID.
func DeleteHotLead(db *gorm.DB, userID, leadID string) error {
	result := db.Where("id = ? AND user_id = ?", leadID, userID).Delete(&models.HotLead{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
