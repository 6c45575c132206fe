package repositories

import (
	"context"

	"msacco-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanTypeRepository implements LoanTypeRepository interface
type loanTypeRepository struct {
	db *gorm.DB
}

// NewLoanTypeRepository creates a new loan type repository
func NewLoanTypeRepository(db *gorm.DB) LoanTypeRepository {
	return &loanTypeRepository{db: db}
}

// Create creates a new loan type
func (r *loanTypeRepository) Create(ctx context.Context, loanType *models.LoanType) error {
	return r.db.WithContext(ctx).Create(loanType).Error
}

// GetByID gets a loan type by ID
func (r *loanTypeRepository) GetByID(ctx context.Context, id uint) (*models.LoanType, error) {
	var loanType models.LoanType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loanType).Error
	if err != nil {
		return nil, err
	}
	return &loanType, nil
}

// GetByName gets a loan type by name
func (r *loanTypeRepository) GetByName(ctx context.Context, name string) (*models.LoanType, error) {
	var loanType models.LoanType
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&loanType).Error
	if err != nil {
		return nil, err
	}
	return &loanType, nil
}

// Update updates a loan type. Existing loans keep their snapshot values.
func (r *loanTypeRepository) Update(ctx context.Context, loanType *models.LoanType) error {
	return r.db.WithContext(ctx).Save(loanType).Error
}

// Delete soft deletes a loan type. Loans referencing it are untouched.
func (r *loanTypeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LoanType{}, id).Error
}

// List lists all loan types
func (r *loanTypeRepository) List(ctx context.Context) ([]*models.LoanType, error) {
	var loanTypes []*models.LoanType
	err := r.db.WithContext(ctx).Order("name").Find(&loanTypes).Error
	return loanTypes, err
}

// loanConfigRepository implements LoanConfigRepository interface
type loanConfigRepository struct {
	db *gorm.DB
}

// NewLoanConfigRepository creates a new loan configuration repository
func NewLoanConfigRepository(db *gorm.DB) LoanConfigRepository {
	return &loanConfigRepository{db: db}
}

// Get returns the current loan configuration row
func (r *loanConfigRepository) Get(ctx context.Context) (*models.LoanConfiguration, error) {
	var config models.LoanConfiguration
	err := r.db.WithContext(ctx).Order("id").First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Create creates the loan configuration row
func (r *loanConfigRepository) Create(ctx context.Context, config *models.LoanConfiguration) error {
	return r.db.WithContext(ctx).Create(config).Error
}

// Update updates the loan configuration row
func (r *loanConfigRepository) Update(ctx context.Context, config *models.LoanConfiguration) error {
	return r.db.WithContext(ctx).Save(config).Error
}
