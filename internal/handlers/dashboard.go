package handlers

import (
	"strconv"

	"github.com/skippergoroye/Accman-Server/internal/middleware"
	"github.com/skippergoroye/Accman-Server/internal/services/ledger"
	"github.com/skippergoroye/Accman-Server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	ledgerService ledger.Service
}

func NewDashboardHandler(ledgerService ledger.Service) *DashboardHandler {
	return &DashboardHandler{ledgerService: ledgerService}
}

// AddFunds submits a funding request for the authenticated user. The
// wallet is only credited once an admin approves the request.
func (h *DashboardHandler) AddFunds(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	request, transaction, err := h.ledgerService.SubmitFundingRequest(c.Context(), claims.UserID, input.Amount)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusCreated, "Funding request submitted successfully", fiber.Map{
		"request":     request,
		"transaction": transaction,
	})
}

// Transactions returns the transactions owned by the user in the path.
// The ledger service enforces that only the owner (or an admin) may read
// them.
func (h *DashboardHandler) Transactions(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	transactions, err := h.ledgerService.ListTransactionsForUser(c.Context(), uint(userID), middleware.Claims(c))
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "", transactions)
}

func (h *DashboardHandler) Balance(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	balance, err := h.ledgerService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "", fiber.Map{"balance": balance})
}
