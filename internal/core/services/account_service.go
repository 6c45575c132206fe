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

// AccountService handles member account management. One account per member;
// admins operate the books but never hold an account themselves.
type AccountService struct {
	accountRepo repositories.AccountRepository
	userRepo    repositories.UserRepository
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepository,
	userRepo repositories.UserRepository,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

// CreateAccountInput represents create account input
type CreateAccountInput struct {
	UserID         uint    `json:"user_id" validate:"required"`
	ShareBalance   float64 `json:"share_balance" validate:"gte=0"`
	DepositBalance float64 `json:"deposit_balance" validate:"gte=0"`
}

// UpdateAccountInput represents an admin balance correction
type UpdateAccountInput struct {
	ShareBalance   *float64 `json:"share_balance" validate:"omitempty,gte=0"`
	DepositBalance *float64 `json:"deposit_balance" validate:"omitempty,gte=0"`
}

// Create opens an account for an active member. The account number is
// generated from the sequence ('3' prefix plus zero-padded counter).
func (s *AccountService) Create(ctx context.Context, input *CreateAccountInput) (*models.Account, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if user.IsAdmin() {
		return nil, domain.ErrAdminHasNoAccount
	}
	if user.Status != models.UserStatusActive {
		return nil, domain.ErrUserNotActive
	}

	existing, err := s.accountRepo.GetByUserID(ctx, input.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAccountAlreadyExists
	}

	number, err := s.accountRepo.NextAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:         input.UserID,
		AccountNumber:  number,
		ShareBalance:   input.ShareBalance,
		DepositBalance: input.DepositBalance,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	log.Printf("✅ Account %s opened for user %d", account.AccountNumber, account.UserID)
	return account, nil
}

// GetByID returns an account. Members can only read their own account.
func (s *AccountService) GetByID(ctx context.Context, actor domain.Actor, id uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() && account.UserID != actor.UserID {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// GetMine returns the acting member's account
func (s *AccountService) GetMine(ctx context.Context, userID uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// List returns all accounts with pagination (admin)
func (s *AccountService) List(ctx context.Context, offset, limit int) ([]*models.Account, int64, error) {
	return s.accountRepo.List(ctx, offset, limit)
}

// Update applies an admin balance correction. Regular balance movement goes
// through posted transactions, not here.
func (s *AccountService) Update(ctx context.Context, id uint, input *UpdateAccountInput) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if input.ShareBalance != nil {
		account.ShareBalance = *input.ShareBalance
	}
	if input.DepositBalance != nil {
		account.DepositBalance = *input.DepositBalance
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	log.Printf("✅ Account %s balances corrected by admin", account.AccountNumber)
	return account, nil
}
