package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/store"
	"github.com/truexpanse/mat-data-service/internal/utils"
	"gorm.io/gorm"
)

// EODHandler handles end-of-day submission routes (manager views)
type EODHandler struct {
	DB       *gorm.DB
	Registry *store.Registry
}

// GetSubmissionIndex handles GET /api/eod/index
// @Summary Get the EOD submission index
// @Description Submitted dateKeys grouped by user, for team completeness views
// @Tags EOD
// @Produce json
// @Success 200 {object} map[string]map[string]bool
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /eod/index [get]
func (h *EODHandler) GetSubmissionIndex(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.manager")
	}

	s, err := h.Registry.Acquire(c.Context(), userID, true)
	if err != nil {
		return dayError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(store.ComputeEODSubmissionIndex(s.Rows()))
}
