// common.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/models"
	"github.com/truexpanse/mat-data-service/internal/services"
	"gorm.io/gorm"
)

// getUserID extracts the authenticated user id from context (set by auth middleware)
func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user not found in context")
	}
	return userID, nil
}

// isManager reports whether the user's profile carries the Manager role.
// The Authorizer role claim gates the route; the profile row decides the
// data scope (team superset vs own rows).
func isManager(db *gorm.DB, userID string) bool {
	profile, err := services.GetUserProfile(db, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Fail closed on lookup errors: own-scope only.
			return false
		}
		return false
	}
	return profile.Role == models.RoleManager
}
