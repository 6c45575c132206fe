package services

import (
	"context"
	"errors"

	"msacco-api/internal/adapters/persistence/repositories"
	"msacco-api/internal/core/domain"

	"gorm.io/gorm"
)

// EligibilityService computes a member's borrowing capacity. The figure is
// never cached: every call reads the live balances and approved loan sum.
type EligibilityService struct {
	accountRepo       repositories.AccountRepository
	loanRepo          repositories.LoanRepository
	loanConfigRepo    repositories.LoanConfigRepository
	defaultMultiplier float64
}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService(
	accountRepo repositories.AccountRepository,
	loanRepo repositories.LoanRepository,
	loanConfigRepo repositories.LoanConfigRepository,
	defaultMultiplier float64,
) *EligibilityService {
	return &EligibilityService{
		accountRepo:       accountRepo,
		loanRepo:          loanRepo,
		loanConfigRepo:    loanConfigRepo,
		defaultMultiplier: defaultMultiplier,
	}
}

// Multiplier returns the active lending multiplier. The loan_configurations
// row wins when present; otherwise the configured default applies.
func (s *EligibilityService) Multiplier(ctx context.Context) float64 {
	cfg, err := s.loanConfigRepo.Get(ctx)
	if err != nil || cfg == nil || cfg.MaxLoanMultiplier <= 0 {
		return s.defaultMultiplier
	}
	return cfg.MaxLoanMultiplier
}

// Compute calculates how much the member may still borrow:
//
//	eligible = max(0, (share_balance + deposit_balance) * multiplier - SUM(approved loan amounts))
//
// A member without an account cannot borrow.
func (s *EligibilityService) Compute(ctx context.Context, userID uint) (*domain.Eligibility, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	currentLoans, err := s.loanRepo.SumApprovedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	capital := account.CapitalPosition()
	eligible := capital*s.Multiplier(ctx) - currentLoans
	if eligible < 0 {
		eligible = 0
	}

	return &domain.Eligibility{
		EligibleAmount:  eligible,
		CurrentLoans:    currentLoans,
		CurrentDeposits: account.DepositBalance,
		CapitalPosition: capital,
	}, nil
}
