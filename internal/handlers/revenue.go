package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/services"
	"github.com/truexpanse/mat-data-service/internal/store"
	"github.com/truexpanse/mat-data-service/internal/utils"
	"gorm.io/gorm"
)

// RevenueHandler handles revenue rollup routes
type RevenueHandler struct {
	DB        *gorm.DB
	WeekStart time.Weekday
}

// GetRollup handles GET /api/revenue/rollup
// @Summary Get the revenue rollup
// @Description Today/week/month/YTD/MCV/ACV figures in integer cents as of a date
// @Tags Revenue
// @Produce json
// @Param asOf query string false "Rollup date (YYYY-MM-DD), default today"
// @Param scope query string false "Set to 'team' for the team ledger (managers only)"
// @Success 200 {object} store.RevenueRollup
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /revenue/rollup [get]
func (h *RevenueHandler) GetRollup(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	asOfParam := c.Query("asOf", time.Now().UTC().Format("2006-01-02"))
	asOf, err := time.ParseInLocation("2006-01-02", asOfParam, time.UTC)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid asOf date", fiber.StatusBadRequest, "data.validation.input")
	}

	scope := userID
	if c.Query("scope") == "team" {
		if !isManager(h.DB, userID) {
			return utils.ErrorResponse(c, "Team scope requires the manager role", fiber.StatusForbidden, "data.authorization.manager")
		}
		scope = ""
	}

	txs, err := services.ListTransactions(h.DB, scope)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getRollup")
	}

	return c.Status(fiber.StatusOK).JSON(store.ComputeRevenueRollup(txs, asOf, h.WeekStart))
}
