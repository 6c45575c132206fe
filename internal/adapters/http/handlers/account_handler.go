package handlers

import (
	"errors"

	"msacco-api/internal/adapters/http/middleware"
	"msacco-api/internal/core/domain"
	"msacco-api/internal/core/services"
	"msacco-api/internal/pkg/pagination"
	"msacco-api/internal/pkg/response"
	"msacco-api/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles member account endpoints
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create opens an account for a member (admin)
// @Summary Open an account
// @Description Open an account for an active member without one
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateAccountInput true "Account data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} map[string]interface{}
// @Router /accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var input services.CreateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	account, err := h.accountService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrAccountAlreadyExists):
			return response.Conflict(c, "User already holds an account")
		case errors.Is(err, domain.ErrAdminHasNoAccount):
			return response.Conflict(c, "Admins cannot hold accounts")
		case errors.Is(err, domain.ErrUserNotActive):
			return response.Conflict(c, "User is not active")
		default:
			return response.InternalServerError(c, "Failed to create account")
		}
	}

	return response.Created(c, "Account created", account)
}

// List returns all accounts with pagination (admin)
// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	accounts, total, err := h.accountService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list accounts")
	}

	return response.Success(c, "", pagination.NewResponse(accounts, params, total))
}

// GetMine returns the authenticated member's account
// @Summary My account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/my [get]
func (h *AccountHandler) GetMine(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	account, err := h.accountService.GetMine(c.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to get account")
	}

	return response.Success(c, "", account)
}

// GetByID returns one account
// @Summary Get an account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid account ID")
	}

	actor := middleware.GetActor(c)
	account, err := h.accountService.GetByID(c.Context(), actor, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to get account")
	}

	return response.Success(c, "", account)
}

// Update applies an admin balance correction
// @Summary Update an account
// @Description Admin correction of share/deposit balances
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body services.UpdateAccountInput true "Balances"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} map[string]interface{}
// @Router /accounts/{id} [put]
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid account ID")
	}

	var input services.UpdateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	account, err := h.accountService.Update(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to update account")
	}

	return response.Success(c, "Account updated", account)
}
