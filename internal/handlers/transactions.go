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

// TransactionsHandler handles revenue-ledger routes
type TransactionsHandler struct {
	DB *gorm.DB
}

// ListTransactions handles GET /api/transactions
// @Summary List transactions
// @Description The caller's revenue ledger; managers see the whole team's
// @Tags Transactions
// @Produce json
// @Success 200 {array} models.Transaction
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /transactions [get]
func (h *TransactionsHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	scope := userID
	if isManager(h.DB, userID) {
		scope = ""
	}
	txs, err := services.ListTransactions(h.DB, scope)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listTransactions")
	}
	return c.Status(fiber.StatusOK).JSON(txs)
}

// CreateTransaction handles POST /api/transactions
// @Summary Record a transaction
// @Description Amounts are integer cents; string amounts from older clients are accepted
// @Tags Transactions
// @Accept json
// @Produce json
// @Param body body object true "Transaction fields"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /transactions [post]
func (h *TransactionsHandler) CreateTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "data.authorization.user")
	}

	var body struct {
		Date        string          `json:"date"`
		AmountCents types.FlexInt64 `json:"amountCents"`
		IsRecurring bool            `json:"isRecurring"`
		ClientName  string          `json:"clientName"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "data.validation.input")
	}
	if err := daydata.ValidateDateKey(body.Date); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "data.validation.input")
	}

	tx := models.Transaction{
		UserID:      userID,
		Date:        body.Date,
		AmountCents: body.AmountCents.Int64(),
		IsRecurring: body.IsRecurring,
		ClientName:  body.ClientName,
	}
	if err := services.CreateTransaction(h.DB, &tx); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createTransaction")
	}
	return c.Status(fiber.StatusOK).JSON(tx)
}
