package services

import (
	"context"
	"errors"
	"log"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/adapters/persistence/repositories"
	"msacco-api/internal/core/domain"

	"gorm.io/gorm"
)

// LoanTypeService handles lending product management
type LoanTypeService struct {
	loanTypeRepo   repositories.LoanTypeRepository
	loanConfigRepo repositories.LoanConfigRepository
}

// NewLoanTypeService creates a new loan type service
func NewLoanTypeService(
	loanTypeRepo repositories.LoanTypeRepository,
	loanConfigRepo repositories.LoanConfigRepository,
) *LoanTypeService {
	return &LoanTypeService{
		loanTypeRepo:   loanTypeRepo,
		loanConfigRepo: loanConfigRepo,
	}
}

// CreateLoanTypeInput represents create loan type input
type CreateLoanTypeInput struct {
	Name         string  `json:"name" validate:"required,min=3,max=100"`
	InterestRate float64 `json:"interest_rate" validate:"required,gte=0,lte=100"`
	Duration     int     `json:"duration" validate:"required,min=1"`
}

// UpdateLoanTypeInput represents update loan type input
type UpdateLoanTypeInput struct {
	Name         *string  `json:"name" validate:"omitempty,min=3,max=100"`
	InterestRate *float64 `json:"interest_rate" validate:"omitempty,gte=0,lte=100"`
	Duration     *int     `json:"duration" validate:"omitempty,min=1"`
}

// UpdateLoanConfigInput represents lending policy update input
type UpdateLoanConfigInput struct {
	MaxLoanMultiplier float64 `json:"max_loan_multiplier" validate:"required,gt=0"`
}

// Create creates a new lending product
func (s *LoanTypeService) Create(ctx context.Context, input *CreateLoanTypeInput) (*models.LoanType, error) {
	existing, err := s.loanTypeRepo.GetByName(ctx, input.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrLoanTypeInUse
	}

	loanType := &models.LoanType{
		Name:         input.Name,
		InterestRate: input.InterestRate,
		Duration:     input.Duration,
	}

	if err := s.loanTypeRepo.Create(ctx, loanType); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan type created: %s", loanType.Name)
	return loanType, nil
}

// GetByID returns a lending product by ID
func (s *LoanTypeService) GetByID(ctx context.Context, id uint) (*models.LoanType, error) {
	loanType, err := s.loanTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanTypeNotFound
		}
		return nil, err
	}
	return loanType, nil
}

// List returns all lending products
func (s *LoanTypeService) List(ctx context.Context) ([]*models.LoanType, error) {
	return s.loanTypeRepo.List(ctx)
}

// Update edits a lending product. Existing loans keep their snapshotted rate
// and period; only future loans see the change.
func (s *LoanTypeService) Update(ctx context.Context, id uint, input *UpdateLoanTypeInput) (*models.LoanType, error) {
	loanType, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != loanType.Name {
		existing, err := s.loanTypeRepo.GetByName(ctx, *input.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrLoanTypeInUse
		}
		loanType.Name = *input.Name
	}
	if input.InterestRate != nil {
		loanType.InterestRate = *input.InterestRate
	}
	if input.Duration != nil {
		loanType.Duration = *input.Duration
	}

	if err := s.loanTypeRepo.Update(ctx, loanType); err != nil {
		return nil, err
	}

	return loanType, nil
}

// Delete soft-deletes a lending product. Loans that reference it are
// untouched; they carry their own snapshots.
func (s *LoanTypeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.loanTypeRepo.Delete(ctx, id)
}

// GetConfig returns the current lending policy row
func (s *LoanTypeService) GetConfig(ctx context.Context) (*models.LoanConfiguration, error) {
	cfg, err := s.loanConfigRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// UpdateConfig adjusts the lending multiplier. Takes effect on the next
// eligibility computation; nothing is recomputed retroactively.
func (s *LoanTypeService) UpdateConfig(ctx context.Context, input *UpdateLoanConfigInput) (*models.LoanConfiguration, error) {
	cfg, err := s.loanConfigRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cfg = &models.LoanConfiguration{MaxLoanMultiplier: input.MaxLoanMultiplier}
		if err := s.loanConfigRepo.Create(ctx, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg.MaxLoanMultiplier = input.MaxLoanMultiplier
	if err := s.loanConfigRepo.Update(ctx, cfg); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan multiplier updated to %.2f", cfg.MaxLoanMultiplier)
	return cfg, nil
}
