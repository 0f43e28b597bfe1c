// day_data.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/daydata"
	"github.com/truexpanse/mat-data-service/internal/metrics"
	"github.com/truexpanse/mat-data-service/internal/store"
	"github.com/truexpanse/mat-data-service/internal/utils"
	"gorm.io/gorm"
)

// DayDataHandler handles day-record routes
type DayDataHandler struct {
	DB       *gorm.DB
	Registry *store.Registry
}

// DayRowResponse is one day record with its owner key.
type DayRowResponse struct {
	UserID string            `json:"userId"`
	Date   string            `json:"date"`
	Record daydata.DayRecord `json:"record"`
}

// sessionStore resolves the caller's session store, creating and loading it
// on the first request after sign-in.
func (h *DayDataHandler) sessionStore(c *fiber.Ctx) (*store.DayRecordStore, string, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, "", err
	}
	s, err := h.Registry.Acquire(c.Context(), userID, isManager(h.DB, userID))
	if err != nil {
		return nil, userID, err
	}
	return s, userID, nil
}

// GetAllDays handles GET /api/data/day
// @Summary Get all day records
// @Description Get every day record visible to the caller (managers see the whole team)
// @Tags DayData
// @Produce json
// @Success 200 {array} DayRowResponse
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /data/day [get]
func (h *DayDataHandler) GetAllDays(c *fiber.Ctx) error {
	s, _, err := h.sessionStore(c)
	if err != nil {
		return dayError(c, err)
	}

	rows := s.Rows()
	out := make([]DayRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, DayRowResponse{UserID: row.UserID, Date: row.DateKey, Record: row.Record})
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// GetDay handles GET /api/data/day/:date
// @Summary Get one day record
// @Description Get the caller's record for a calendar date; absent dates read as the default empty record
// @Tags DayData
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} daydata.DayRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /data/day/{date} [get]
func (h *DayDataHandler) GetDay(c *fiber.Ctx) error {
	dateKey := c.Params("date")
	if err := daydata.ValidateDateKey(dateKey); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "data.validation.input")
	}

	s, _, err := h.sessionStore(c)
	if err != nil {
		return dayError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(s.GetRecord(dateKey))
}

// UpsertDay handles POST /api/data/day/:date
// @Summary Upsert a day record
// @Description Field-level merge of the posted update over the stored record; arrays are replaced wholesale
// @Tags DayData
// @Accept json
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Param body body daydata.Patch true "Fields to replace"
// @Success 200 {object} daydata.DayRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /data/day/{date} [post]
func (h *DayDataHandler) UpsertDay(c *fiber.Ctx) error {
	dateKey := c.Params("date")
	if err := daydata.ValidateDateKey(dateKey); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "data.validation.input")
	}

	var patch daydata.Patch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "data.validation.input")
	}

	s, _, err := h.sessionStore(c)
	if err != nil {
		return dayError(c, err)
	}
	if err := s.UpsertRecord(c.Context(), dateKey, patch); err != nil {
		return dayError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(s.GetRecord(dateKey))
}

// RecordWin handles POST /api/data/day/:date/wins
// @Summary Record a win
// @Description Append a win message to the day's wins and signal the celebration sink
// @Tags DayData
// @Accept json
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Param body body object true "Win message"
// @Success 200 {object} utils.MutationResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /data/day/{date}/wins [post]
func (h *DayDataHandler) RecordWin(c *fiber.Ctx) error {
	dateKey := c.Params("date")
	if err := daydata.ValidateDateKey(dateKey); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "data.validation.input")
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil || body.Message == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "data.validation.input")
	}

	s, _, err := h.sessionStore(c)
	if err != nil {
		return dayError(c, err)
	}
	if err := s.RecordWin(c.Context(), dateKey, body.Message); err != nil {
		return dayError(c, err)
	}
	return utils.MutationSuccessResponse(c, false, body.Message)
}

// SetGoalCompletion handles POST /api/data/day/:date/goals/completion
// @Summary Set goal completion
// @Description Set the completed flag on a goal in the named list; completing a non-empty goal records a win
// @Tags DayData
// @Accept json
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Param body body object true "List kind, goal id, completed flag"
// @Success 200 {object} daydata.DayRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /data/day/{date}/goals/completion [post]
func (h *DayDataHandler) SetGoalCompletion(c *fiber.Ctx) error {
	dateKey := c.Params("date")
	if err := daydata.ValidateDateKey(dateKey); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "data.validation.input")
	}

	var body struct {
		List      store.ListKind `json:"list"`
		GoalID    string         `json:"goalId"`
		Completed bool           `json:"completed"`
	}
	if err := c.BodyParser(&body); err != nil || body.GoalID == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "data.validation.input")
	}
	if body.List != store.ListTopTargets && body.List != store.ListMassiveGoals {
		return utils.ErrorResponse(c, "Unknown goal list", fiber.StatusBadRequest, "data.validation.input")
	}

	s, _, err := h.sessionStore(c)
	if err != nil {
		return dayError(c, err)
	}
	if err := s.SetGoalCompletion(c.Context(), dateKey, body.List, body.GoalID, body.Completed); err != nil {
		return dayError(c, err)
	}
	// A goal matching nothing is a benign no-op; the caller gets the
	// (possibly unchanged) record either way.
	return c.Status(fiber.StatusOK).JSON(s.GetRecord(dateKey))
}

// AcceptChallenges handles POST /api/data/day/:date/challenges/accept
// @Summary Fill empty top targets from AI suggestions
// @Description Assign AI-suggested challenges to the empty top-target slots, all-or-nothing
// @Tags DayData
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} daydata.DayRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /data/day/{date}/challenges/accept [post]
func (h *DayDataHandler) AcceptChallenges(c *fiber.Ctx) error {
	dateKey := c.Params("date")
	if err := daydata.ValidateDateKey(dateKey); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "data.validation.input")
	}

	s, _, err := h.sessionStore(c)
	if err != nil {
		return dayError(c, err)
	}
	if err := s.FillEmptyTopTargets(c.Context(), dateKey); err != nil {
		return dayError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(s.GetRecord(dateKey))
}

// GetPending handles GET /api/data/day/pending
// @Summary List unconfirmed day writes
// @Description Dates whose optimistic local value has not been confirmed by the database
// @Tags DayData
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /data/day/pending [get]
func (h *DayDataHandler) GetPending(c *fiber.Ctx) error {
	s, _, err := h.sessionStore(c)
	if err != nil {
		return dayError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"pending": s.PendingKeys()})
}

// dayError maps store errors onto the response envelope.
func dayError(c *fiber.Ctx, err error) error {
	var perr *store.PersistenceError
	if errors.As(err, &perr) {
		// The optimistic local value is retained; the caller decides
		// whether to retry.
		if perr.Op == "upsert" {
			metrics.PendingUpserts.Inc()
		}
		return utils.ErrorResponse(c, perr.Error(), fiber.StatusBadGateway, "data.persistence")
	}
	var serr *store.SuggestionError
	if errors.As(err, &serr) {
		return utils.ErrorResponse(c, serr.Error(), fiber.StatusBadGateway, "ai.suggestion")
	}
	if err.Error() == "user not found in context" {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "data.day")
}
