package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/models"
	"github.com/truexpanse/mat-data-service/internal/services"
	"github.com/truexpanse/mat-data-service/internal/utils"
	"gorm.io/gorm"
)

// LeadsHandler handles hot-lead pipeline routes
type LeadsHandler struct {
	DB *gorm.DB
}

// leadBody is the wire form of a hot lead.
type leadBody struct {
	Name               string `json:"name"`
	Company            string `json:"company"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	InterestLevel      string `json:"interestLevel"`
	Prospecting        bool   `json:"prospecting"`
	DateAdded          string `json:"dateAdded"`
	AppointmentDate    string `json:"appointmentDate"`
	CompletedFollowUps int    `json:"completedFollowUps"`
}

func (b leadBody) model() models.HotLead {
	return models.HotLead{
		Name:               b.Name,
		Company:            b.Company,
		Phone:              b.Phone,
		Email:              b.Email,
		InterestLevel:      b.InterestLevel,
		Prospecting:        b.Prospecting,
		DateAdded:          b.DateAdded,
		AppointmentDate:    b.AppointmentDate,
		CompletedFollowUps: b.CompletedFollowUps,
	}
}

// ListLeads handles GET /api/leads
// @Summary List hot leads
// @Description The caller's pipeline; managers see the whole team's
// @Tags Leads
// @Produce json
// @Success 200 {array} models.HotLead
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /leads [get]
func (h *LeadsHandler) ListLeads(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	scope := userID
	if isManager(h.DB, userID) {
		scope = ""
	}
	leads, err := services.ListHotLeads(h.DB, scope)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listLeads")
	}
	return c.Status(fiber.StatusOK).JSON(leads)
}

// CreateLead handles POST /api/leads
// @Summary Add a hot lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param body body leadBody true "Lead fields"
// @Success 200 {object} models.HotLead
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /leads [post]
func (h *LeadsHandler) CreateLead(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	var body leadBody
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "data.validation.input")
	}

	lead := body.model()
	if err := services.CreateHotLead(h.DB, userID, &lead); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createLead")
	}
	return c.Status(fiber.StatusOK).JSON(lead)
}

// UpdateLead handles PUT /api/leads/:id
// @Summary Update a hot lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param body body leadBody true "Lead fields"
// @Success 200 {object} utils.MutationResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /leads/{id} [put]
func (h *LeadsHandler) UpdateLead(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	var body leadBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "data.validation.input")
	}

	lead := body.model()
	lead.ID = c.Params("id")
	if err := services.UpdateHotLead(h.DB, userID, &lead); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundResponse(c, "Lead not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateLead")
	}
	return utils.MutationSuccessResponse(c, false, "")
}

// DeleteLead handles DELETE /api/leads/:id
// @Summary Delete a hot lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} utils.MutationResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /leads/{id} [delete]
func (h *LeadsHandler) DeleteLead(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	if err := services.DeleteHotLead(h.DB, userID, c.Params("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundResponse(c, "Lead not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteLead")
	}
	return utils.MutationSuccessResponse(c, false, "")
}
