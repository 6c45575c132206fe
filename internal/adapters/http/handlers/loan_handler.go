package handlers

import (
	"context"
	"errors"
	"strconv"

	"msacco-api/internal/adapters/http/middleware"
	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/core/domain"
	"msacco-api/internal/core/services"
	"msacco-api/internal/pkg/pagination"
	"msacco-api/internal/pkg/response"
	"msacco-api/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Request handles a member's loan application
// @Summary Request a loan
// @Description Apply for a loan against the member's eligible amount
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RequestLoanInput true "Loan application"
// @Success 201 {object} response.Response
// @Failure 403 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /loans [post]
func (h *LoanHandler) Request(c *fiber.Ctx) error {
	var input services.RequestLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	actor := middleware.GetActor(c)
	loan, err := h.loanService.Request(c.Context(), actor, &input)
	if err != nil {
		if ee, ok := domain.IsEligibilityError(err); ok {
			return response.EligibilityExceeded(c, ee.EligibleAmount, ee.CurrentLoans)
		}
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, domain.ErrLoanTypeNotFound):
			return response.ValidationErrors(c, map[string]string{
				"loan_type_id": "The selected loan type is invalid",
			})
		case errors.Is(err, domain.ErrBelowDeposits):
			return response.ValidationErrors(c, map[string]string{
				"amount": "The amount must be greater than your current deposits",
			})
		default:
			return response.InternalServerError(c, "Failed to request loan")
		}
	}

	return response.Created(c, "Loan requested successfully", loan.ToResponse())
}

// List handles loan listing
// @Summary List loans
// @Description Members see their own loans; admins see all, filterable by status and user
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param user_id query int false "Filter by user (admin)"
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	params := pagination.GetParams(c)

	userID, _ := strconv.Atoi(c.Query("user_id", "0"))
	input := &services.ListLoansInput{
		Status: c.Query("status"),
		UserID: uint(userID),
		Offset: params.Offset,
		Limit:  params.Limit,
	}

	loans, total, err := h.loanService.List(c.Context(), actor, input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "", pagination.NewResponse(loans, params, total))
}

// GetByID handles fetching one loan
// @Summary Get a loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	actor := middleware.GetActor(c)
	loan, err := h.loanService.GetByID(c.Context(), actor, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	return response.Success(c, "", loan.ToResponse())
}

// Eligibility returns the member's current borrowing capacity
// @Summary Loan eligibility
// @Description Compute how much the member may currently borrow
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/eligibility [get]
func (h *LoanHandler) Eligibility(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	elig, err := h.loanService.Eligibility(c.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to compute eligibility")
	}

	return response.Success(c, "", elig)
}

// Approve transitions a pending loan to approved and disburses it
// @Summary Approve a loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/approve [patch]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.loanService.Approve, "Loan approved and disbursed")
}

// Reject transitions a pending loan to rejected
// @Summary Reject a loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/reject [patch]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.loanService.Reject, "Loan rejected")
}

// Settle transitions an approved loan to settled
// @Summary Settle a loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/settle [patch]
func (h *LoanHandler) Settle(c *fiber.Ctx) error {
	return h.transition(c, h.loanService.Settle, "Loan settled")
}

// AdminUpdate lets an admin override a loan record
// @Summary Update a loan (admin)
// @Description Directly edit loan fields, bypassing transition guards
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.AdminUpdateLoanInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} map[string]interface{}
// @Router /loans/{id} [put]
func (h *LoanHandler) AdminUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input services.AdminUpdateLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	loan, err := h.loanService.AdminUpdate(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrInvalidLoanStatus):
			return response.ValidationErrors(c, map[string]string{
				"status": "The status must be one of: Pending Approved Rejected Settled",
			})
		default:
			return response.InternalServerError(c, "Failed to update loan")
		}
	}

	return response.Success(c, "Loan updated", loan.ToResponse())
}

// transition runs a status transition with shared error mapping
func (h *LoanHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, id uint) (*models.Loan, error), message string) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := fn(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrInvalidLoanState):
			return response.Conflict(c, "Loan is not in a state that permits this transition")
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		default:
			return response.InternalServerError(c, "Failed to update loan")
		}
	}

	return response.Success(c, message, loan.ToResponse())
}
