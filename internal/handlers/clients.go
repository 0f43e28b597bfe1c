// clients.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/daydata"
	"github.com/truexpanse/mat-data-service/internal/models"
	"github.com/truexpanse/mat-data-service/internal/services"
	"github.com/truexpanse/mat-data-service/internal/types"
	"github.com/truexpanse/mat-data-service/internal/utils"
	"gorm.io/gorm"
)

// ClientsHandler handles closed-account routes
type ClientsHandler struct {
	DB *gorm.DB
}

// ListClients handles GET /api/clients
// @Summary List closed accounts
// @Description The caller's closed accounts; managers see the whole team's
// @Tags Clients
// @Produce json
// @Success 200 {array} models.Client
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /clients [get]
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	scope := userID
	if isManager(h.DB, userID) {
		scope = ""
	}
	clients, err := services.ListClients(h.DB, scope)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listClients")
	}
	return c.Status(fiber.StatusOK).JSON(clients)
}

// CreateClient handles POST /api/clients
// @Summary Record a closed account
// @Description Contract amounts are integer cents; string amounts from older clients are accepted
// @Tags Clients
// @Accept json
// @Produce json
// @Param body body object true "Client fields"
// @Success 200 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /clients [post]
func (h *ClientsHandler) CreateClient(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	var body struct {
		Name                   string          `json:"name"`
		MonthlyContractCents   types.FlexInt64 `json:"monthlyContractCents"`
		InitialCollectedCents  types.FlexInt64 `json:"initialCollectedCents"`
		CloseDate              string          `json:"closeDate"`
		SalesProcessLengthDays int             `json:"salesProcessLengthDays"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "data.validation.input")
	}
	if body.CloseDate != "" {
		if err := daydata.ValidateDateKey(body.CloseDate); err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "data.validation.input")
		}
	}

	client := models.Client{
		Name:                   body.Name,
		MonthlyContractCents:   body.MonthlyContractCents.Int64(),
		InitialCollectedCents:  body.InitialCollectedCents.Int64(),
		CloseDate:              body.CloseDate,
		SalesProcessLengthDays: body.SalesProcessLengthDays,
	}
	if err := services.CreateClient(h.DB, userID, &client); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createClient")
	}
	return c.Status(fiber.StatusOK).JSON(client)
}
