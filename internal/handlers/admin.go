package handlers

import (
	"strconv"

	"github.com/skippergoroye/Accman-Server/internal/services/admin"
	"github.com/skippergoroye/Accman-Server/internal/services/ledger"
	"github.com/skippergoroye/Accman-Server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService  admin.Service
	ledgerService ledger.Service
}

func NewAdminHandler(adminService admin.Service, ledgerService ledger.Service) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		ledgerService: ledgerService,
	}
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	token, err := h.adminService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"accessToken": token,
	})
}

func (h *AdminHandler) Register(c *fiber.Ctx) error {
	var input admin.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	adminUser, token, err := h.adminService.Register(c.Context(), input)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusCreated, "Admin registered successfully. Verification email sent.", fiber.Map{
		"user":        adminUser,
		"accessToken": token,
	})
}

// GetUsers lists every user; ?new=true orders newest first.
func (h *AdminHandler) GetUsers(c *fiber.Ctx) error {
	newestFirst := c.Query("new") == "true"

	users, err := h.adminService.ListUsers(c.Context(), newestFirst)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "", users)
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	data, err := h.adminService.DashboardData(c.Context())
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "", data)
}

func (h *AdminHandler) PendingFundingRequests(c *fiber.Ctx) error {
	requests, err := h.adminService.PendingFundingRequests(c.Context())
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "", requests)
}

// ApproveFundingRequest credits the owner's wallet exactly once. A
// repeated approval reports a conflict instead of re-crediting.
func (h *AdminHandler) ApproveFundingRequest(c *fiber.Ctx) error {
	requestID, err := strconv.ParseUint(c.Params("requestId"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid request ID")
	}

	newBalance, err := h.ledgerService.ApproveFundingRequest(c.Context(), uint(requestID))
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "Funding request approved", fiber.Map{
		"newBalance": newBalance,
	})
}

func (h *AdminHandler) RejectFundingRequest(c *fiber.Ctx) error {
	requestID, err := strconv.ParseUint(c.Params("requestId"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid request ID")
	}

	if err := h.ledgerService.RejectFundingRequest(c.Context(), uint(requestID)); err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "Funding request rejected", nil)
}

func (h *AdminHandler) Transactions(c *fiber.Ctx) error {
	transactions, err := h.adminService.AllTransactions(c.Context())
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "", transactions)
}
