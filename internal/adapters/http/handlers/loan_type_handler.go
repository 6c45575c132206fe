package handlers

import (
	"errors"

	"msacco-api/internal/core/domain"
	"msacco-api/internal/core/services"
	"msacco-api/internal/pkg/response"
	"msacco-api/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// LoanTypeHandler handles lending product endpoints
type LoanTypeHandler struct {
	loanTypeService *services.LoanTypeService
}

// NewLoanTypeHandler creates a new loan type handler
func NewLoanTypeHandler(loanTypeService *services.LoanTypeService) *LoanTypeHandler {
	return &LoanTypeHandler{loanTypeService: loanTypeService}
}

// List returns all lending products
// @Summary List loan types
// @Tags LoanTypes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loan-types [get]
func (h *LoanTypeHandler) List(c *fiber.Ctx) error {
	loanTypes, err := h.loanTypeService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list loan types")
	}
	return response.Success(c, "", loanTypes)
}

// GetByID returns one lending product
// @Summary Get a loan type
// @Tags LoanTypes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loan-types/{id} [get]
func (h *LoanTypeHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan type ID")
	}

	loanType, err := h.loanTypeService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrLoanTypeNotFound) {
			return response.NotFound(c, "Loan type not found")
		}
		return response.InternalServerError(c, "Failed to get loan type")
	}

	return response.Success(c, "", loanType)
}

// Create creates a lending product (admin)
// @Summary Create a loan type
// @Tags LoanTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateLoanTypeInput true "Loan type data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} map[string]interface{}
// @Router /loan-types [post]
func (h *LoanTypeHandler) Create(c *fiber.Ctx) error {
	var input services.CreateLoanTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	loanType, err := h.loanTypeService.Create(c.Context(), &input)
	if err != nil {
		if errors.Is(err, domain.ErrLoanTypeInUse) {
			return response.Conflict(c, "Loan type name already exists")
		}
		return response.InternalServerError(c, "Failed to create loan type")
	}

	return response.Created(c, "Loan type created", loanType)
}

// Update edits a lending product (admin)
// @Summary Update a loan type
// @Tags LoanTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan type ID"
// @Param body body services.UpdateLoanTypeInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} map[string]interface{}
// @Router /loan-types/{id} [put]
func (h *LoanTypeHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan type ID")
	}

	var input services.UpdateLoanTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	loanType, err := h.loanTypeService.Update(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanTypeNotFound):
			return response.NotFound(c, "Loan type not found")
		case errors.Is(err, domain.ErrLoanTypeInUse):
			return response.Conflict(c, "Loan type name already exists")
		default:
			return response.InternalServerError(c, "Failed to update loan type")
		}
	}

	return response.Success(c, "Loan type updated", loanType)
}

// Delete removes a lending product (admin)
// @Summary Delete a loan type
// @Tags LoanTypes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loan-types/{id} [delete]
func (h *LoanTypeHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan type ID")
	}

	if err := h.loanTypeService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrLoanTypeNotFound) {
			return response.NotFound(c, "Loan type not found")
		}
		return response.InternalServerError(c, "Failed to delete loan type")
	}

	return response.Success(c, "Loan type deleted", nil)
}

// GetConfig returns the lending policy (admin)
// @Summary Get loan configuration
// @Tags LoanTypes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loan-config [get]
func (h *LoanTypeHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.loanTypeService.GetConfig(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Loan configuration not found")
		}
		return response.InternalServerError(c, "Failed to get loan configuration")
	}
	return response.Success(c, "", cfg)
}

// UpdateConfig adjusts the lending multiplier (admin)
// @Summary Update loan configuration
// @Tags LoanTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateLoanConfigInput true "Policy data"
// @Success 200 {object} response.Response
// @Failure 422 {object} map[string]interface{}
// @Router /loan-config [put]
func (h *LoanTypeHandler) UpdateConfig(c *fiber.Ctx) error {
	var input services.UpdateLoanConfigInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	cfg, err := h.loanTypeService.UpdateConfig(c.Context(), &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to update loan configuration")
	}

	return response.Success(c, "Loan configuration updated", cfg)
}
