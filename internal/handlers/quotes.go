// quotes.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/models"
	"github.com/truexpanse/mat-data-service/internal/services"
	"github.com/truexpanse/mat-data-service/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuotesHandler handles saved-quote routes
type QuotesHandler struct {
	DB *gorm.DB
}

// ListQuotes handles GET /api/quotes
// @Summary List saved quotes
// @Description The caller's saved quote documents, newest first; managers see the whole team's
// @Tags Quotes
// @Produce json
// @Success 200 {array} models.Quote
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /quotes [get]
func (h *QuotesHandler) ListQuotes(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	scope := userID
	if isManager(h.DB, userID) {
		scope = ""
	}
	quotes, err := services.ListQuotes(h.DB, scope)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listQuotes")
	}
	return c.Status(fiber.StatusOK).JSON(quotes)
}

// SaveQuote handles POST /api/quotes
// @Summary Save a quote
// @Description Store a generated quote document as-is; generation happens upstream
// @Tags Quotes
// @Accept json
// @Produce json
// @Param body body object true "Quote document"
// @Success 200 {object} models.Quote
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /quotes [post]
func (h *QuotesHandler) SaveQuote(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	var body struct {
		Content json.RawMessage `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Content) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "data.validation.input")
	}

	quote := models.Quote{
		Content: models.JSON{JSON: datatypes.JSON(body.Content)},
	}
	if err := services.SaveQuote(h.DB, userID, &quote); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "saveQuote")
	}
	return c.Status(fiber.StatusOK).JSON(quote)
}

// DeleteQuote handles DELETE /api/quotes/:id
// @Summary Delete a saved quote
// @Tags Quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} utils.MutationResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /quotes/{id} [delete]
func (h *QuotesHandler) DeleteQuote(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	quoteID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid quote id", fiber.StatusBadRequest, "data.validation.input")
	}

	if err := services.DeleteQuote(h.DB, userID, quoteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundResponse(c, "Quote not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteQuote")
	}
	return utils.MutationSuccessResponse(c, false, "")
}
