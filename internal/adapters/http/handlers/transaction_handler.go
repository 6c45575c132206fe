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

// TransactionHandler handles ledger endpoints
type TransactionHandler struct {
	transactionService *services.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Post records a ledger transaction (admin)
// @Summary Post a transaction
// @Description Record a deposit, withdrawal, or loan repayment and apply its balance effect
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PostTransactionInput true "Transaction data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} map[string]interface{}
// @Router /transactions [post]
func (h *TransactionHandler) Post(c *fiber.Ctx) error {
	var input services.PostTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	tx, err := h.transactionService.Post(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, domain.ErrInsufficientFunds):
			return response.Conflict(c, "Insufficient funds")
		default:
			return response.InternalServerError(c, "Failed to post transaction")
		}
	}

	return response.Created(c, "Transaction posted", tx)
}

// List returns transactions visible to the actor
// @Summary List transactions
// @Description Admins see the full ledger; members see their own transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	params := pagination.GetParams(c)

	txs, total, err := h.transactionService.List(c.Context(), actor, params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to list transactions")
	}

	return response.Success(c, "", pagination.NewResponse(txs, params, total))
}

// GetByID returns one transaction
// @Summary Get a transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid transaction ID")
	}

	actor := middleware.GetActor(c)
	tx, err := h.transactionService.GetByID(c.Context(), actor, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Transaction not found")
		}
		return response.InternalServerError(c, "Failed to get transaction")
	}

	return response.Success(c, "", tx)
}

// ListByAccount returns transactions on one account
// @Summary List account transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/{id}/transactions [get]
func (h *TransactionHandler) ListByAccount(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid account ID")
	}

	actor := middleware.GetActor(c)
	txs, err := h.transactionService.ListByAccount(c.Context(), actor, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to list transactions")
	}

	return response.Success(c, "", txs)
}
