// data.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

package helpers

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/truexpanse/mat-data-service/internal/daydata"
	"github.com/truexpanse/mat-data-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDayRow persists one day record for a user
func SeedDayRow(t *testing.T, db *gorm.DB, userID, dateKey string, rec daydata.DayRecord) {
	t.Helper()
	buf, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Failed to marshal day record: %v", err)
	}
	row := models.DayRow{
		UserID: userID,
		Date:   dateKey,
		Data:   models.JSON{JSON: datatypes.JSON(buf)},
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create day row: %v", err)
	}
}

// SeedTransaction persists one revenue event
func SeedTransaction(t *testing.T, db *gorm.DB, userID, dateKey string, amountCents int64, recurring bool) {
	t.Helper()
	tx := models.Transaction{
		UserID:      userID,
		Date:        dateKey,
		AmountCents: amountCents,
		IsRecurring: recurring,
	}
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}
}

// SeedUser persists a team-member profile and returns its id
func SeedUser(t *testing.T, db *gorm.DB, name, email, role string) string {
	t.Helper()
	user := models.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Role:   role,
		Status: models.StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.ID
}

// SeedHotLead persists one pipeline contact and returns its id
func SeedHotLead(t *testing.T, db *gorm.DB, userID, name string) string {
	t.Helper()
	lead := models.HotLead{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if err := db.Create(&lead).Error; err != nil {
		t.Fatalf("Failed to create hot lead: %v", err)
	}
	return lead.ID
}
