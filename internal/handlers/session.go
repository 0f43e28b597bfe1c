package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/store"
	"github.com/truexpanse/mat-data-service/internal/utils"
)

// SessionHandler handles session lifecycle routes
type SessionHandler struct {
	Registry *store.Registry
}

// EndSession handles DELETE /api/session
// @Summary End the session
// @Description Tear down the caller's session store, dropping all cached collections
// @Tags Session
// @Produce json
// @Success 200 {object} utils.MutationResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /session [delete]
func (h *SessionHandler) EndSession(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}
	h.Registry.Evict(userID)
	return utils.MutationSuccessResponse(c, false, "")
}
