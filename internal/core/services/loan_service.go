package services

import (
	"context"
	"errors"
	"log"
	"time"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/adapters/persistence/repositories"
	"msacco-api/internal/config"
	"msacco-api/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanService handles the loan lifecycle: request, approve, reject, settle.
// State transitions that move money run inside a unit of work with the loan
// and account rows locked.
type LoanService struct {
	loanRepo     repositories.LoanRepository
	accountRepo  repositories.AccountRepository
	loanTypeRepo repositories.LoanTypeRepository
	eligibility  *EligibilityService
	uow          repositories.UnitOfWork
	cfg          *config.Config
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	accountRepo repositories.AccountRepository,
	loanTypeRepo repositories.LoanTypeRepository,
	eligibility *EligibilityService,
	uow repositories.UnitOfWork,
	cfg *config.Config,
) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		accountRepo:  accountRepo,
		loanTypeRepo: loanTypeRepo,
		eligibility:  eligibility,
		uow:          uow,
		cfg:          cfg,
	}
}

// RequestLoanInput represents a member's loan application
type RequestLoanInput struct {
	LoanTypeID uint    `json:"loan_type_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

// AdminUpdateLoanInput represents an admin override of a loan record.
// It bypasses the state machine; disbursement is never re-applied here.
type AdminUpdateLoanInput struct {
	Amount  *float64 `json:"amount" validate:"omitempty,gt=0"`
	Balance *float64 `json:"balance" validate:"omitempty,gte=0"`
	Status  *string  `json:"status" validate:"omitempty,oneof=Pending Approved Rejected Settled"`
}

// ListLoansInput represents loan list filters
type ListLoansInput struct {
	Status string
	UserID uint
	Offset int
	Limit  int
}

// Request creates a Pending loan for the acting member. The amount is checked
// against the member's eligible amount at request time; the check is
// optimistic, approval re-validates under lock.
func (s *LoanService) Request(ctx context.Context, actor domain.Actor, input *RequestLoanInput) (*models.Loan, error) {
	account, err := s.accountRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	loanType, err := s.loanTypeRepo.GetByID(ctx, input.LoanTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanTypeNotFound
		}
		return nil, err
	}

	elig, err := s.eligibility.Compute(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if input.Amount > elig.EligibleAmount {
		return nil, &domain.EligibilityError{
			Requested:      input.Amount,
			EligibleAmount: elig.EligibleAmount,
			CurrentLoans:   elig.CurrentLoans,
		}
	}

	if s.cfg.Loan.RequireAboveDeposits && input.Amount <= elig.CurrentDeposits {
		return nil, domain.ErrBelowDeposits
	}

	// Interest rate and repayment period are snapshotted so later edits to
	// the loan type never alter this loan.
	loan := &models.Loan{
		UserID:          actor.UserID,
		AccountID:       account.ID,
		LoanTypeID:      loanType.ID,
		Amount:          input.Amount,
		Balance:         input.Amount,
		InterestRate:    loanType.InterestRate,
		RepaymentPeriod: loanType.Duration,
		Status:          models.LoanStatusPending,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	loan.LoanType = loanType

	log.Printf("✅ Loan #%d requested: user %d, amount %.2f", loan.ID, actor.UserID, loan.Amount)
	return loan, nil
}

// Approve transitions a Pending loan to Approved and credits the loan amount
// to the member's deposit balance. Disbursing into the deposit balance is the
// cooperative's payout model; the member withdraws from there. The loan and
// account rows are locked so a concurrent approve observes the new status and
// fails with ErrInvalidLoanState instead of disbursing twice.
func (s *LoanService) Approve(ctx context.Context, id uint) (*models.Loan, error) {
	var approved *models.Loan

	err := s.uow.WithinTx(ctx, func(r repositories.Repos) error {
		loan, err := r.Loans.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.Status != models.LoanStatusPending {
			return domain.ErrInvalidLoanState
		}

		account, err := r.Accounts.GetByIDForUpdate(ctx, loan.AccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}

		loan.Status = models.LoanStatusApproved
		if err := r.Loans.Update(ctx, loan); err != nil {
			return err
		}

		account.DepositBalance += loan.Amount
		if err := r.Accounts.Update(ctx, account); err != nil {
			return err
		}

		disbursement := &models.Transaction{
			AccountID:       account.ID,
			Type:            models.TxTypeDeposit,
			Amount:          loan.Amount,
			Source:          "loan disbursement",
			Destination:     account.AccountNumber,
			Reference:       uuid.NewString(),
			TransactionDate: time.Now(),
		}
		if err := r.Transactions.Create(ctx, disbursement); err != nil {
			return err
		}

		approved = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Loan #%d approved and disbursed: %.2f", approved.ID, approved.Amount)
	return approved, nil
}

// Reject transitions a Pending loan to Rejected. No balances change.
func (s *LoanService) Reject(ctx context.Context, id uint) (*models.Loan, error) {
	return s.transition(ctx, id, models.LoanStatusPending, models.LoanStatusRejected)
}

// Settle transitions an Approved loan to Settled, closing it out. The
// outstanding balance is zeroed; repayments along the way are posted as
// ledger transactions.
func (s *LoanService) Settle(ctx context.Context, id uint) (*models.Loan, error) {
	return s.transition(ctx, id, models.LoanStatusApproved, models.LoanStatusSettled)
}

// transition moves a loan from one status to another under a row lock,
// refusing any other starting status.
func (s *LoanService) transition(ctx context.Context, id uint, from, to string) (*models.Loan, error) {
	var updated *models.Loan

	err := s.uow.WithinTx(ctx, func(r repositories.Repos) error {
		loan, err := r.Loans.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.Status != from {
			return domain.ErrInvalidLoanState
		}

		loan.Status = to
		if to == models.LoanStatusSettled {
			loan.Balance = 0
		}
		if err := r.Loans.Update(ctx, loan); err != nil {
			return err
		}

		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Loan #%d: %s → %s", updated.ID, from, to)
	return updated, nil
}

// AdminUpdate lets an admin correct a loan record directly. Status changes
// here skip the transition guards and never move money.
func (s *LoanService) AdminUpdate(ctx context.Context, id uint, input *AdminUpdateLoanInput) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	if input.Amount != nil {
		loan.Amount = *input.Amount
	}
	if input.Balance != nil {
		loan.Balance = *input.Balance
	}
	if input.Status != nil {
		if !models.ValidLoanStatus(*input.Status) {
			return nil, domain.ErrInvalidLoanStatus
		}
		loan.Status = *input.Status
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan #%d updated by admin", loan.ID)
	return loan, nil
}

// GetByID returns a loan. Members can only read their own loans.
func (s *LoanService) GetByID(ctx context.Context, actor domain.Actor, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() && loan.UserID != actor.UserID {
		return nil, domain.ErrLoanNotFound
	}

	return loan, nil
}

// List returns loans visible to the actor: all of them for admins (with
// optional status/user filters), own loans for members.
func (s *LoanService) List(ctx context.Context, actor domain.Actor, input *ListLoansInput) ([]*models.Loan, int64, error) {
	if !actor.IsAdmin() {
		loans, err := s.loanRepo.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, 0, err
		}
		return filterByStatus(loans, input.Status)
	}

	if input.UserID != 0 {
		loans, err := s.loanRepo.GetByUserID(ctx, input.UserID)
		if err != nil {
			return nil, 0, err
		}
		return filterByStatus(loans, input.Status)
	}

	loans, total, err := s.loanRepo.List(ctx, input.Offset, input.Limit)
	if err != nil {
		return nil, 0, err
	}
	if input.Status != "" {
		return filterByStatus(loans, input.Status)
	}
	return loans, total, nil
}

// Eligibility exposes the member's current borrowing capacity
func (s *LoanService) Eligibility(ctx context.Context, userID uint) (*domain.Eligibility, error) {
	return s.eligibility.Compute(ctx, userID)
}

func filterByStatus(loans []*models.Loan, status string) ([]*models.Loan, int64, error) {
	if status == "" {
		return loans, int64(len(loans)), nil
	}
	filtered := make([]*models.Loan, 0, len(loans))
	for _, l := range loans {
		if l.Status == status {
			filtered = append(filtered, l)
		}
	}
	return filtered, int64(len(filtered)), nil
}
