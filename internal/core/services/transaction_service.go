package services

import (
	"context"
	"errors"
	"log"
	"time"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/adapters/persistence/repositories"
	"msacco-api/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionService posts ledger transactions. A posting inserts the
// immutable transaction row and adjusts the account's deposit balance in the
// same database transaction with the account row locked.
type TransactionService struct {
	transactionRepo repositories.TransactionRepository
	accountRepo     repositories.AccountRepository
	uow             repositories.UnitOfWork
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepository,
	accountRepo repositories.AccountRepository,
	uow repositories.UnitOfWork,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		uow:             uow,
	}
}

// PostTransactionInput represents a ledger posting
type PostTransactionInput struct {
	AccountID   uint    `json:"account_id" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=deposit withdrawal loan_repayment"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Source      string  `json:"source" validate:"max=100"`
	Destination string  `json:"destination" validate:"max=100"`
}

// Post records a transaction and applies its balance effect: deposits credit
// the deposit balance, withdrawals and loan repayments debit it. Debits
// require sufficient funds.
func (s *TransactionService) Post(ctx context.Context, input *PostTransactionInput) (*models.Transaction, error) {
	var posted *models.Transaction

	err := s.uow.WithinTx(ctx, func(r repositories.Repos) error {
		account, err := r.Accounts.GetByIDForUpdate(ctx, input.AccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}

		switch input.Type {
		case models.TxTypeDeposit:
			account.DepositBalance += input.Amount
		case models.TxTypeWithdrawal, models.TxTypeLoanRepayment:
			if account.DepositBalance < input.Amount {
				return domain.ErrInsufficientFunds
			}
			account.DepositBalance -= input.Amount
		default:
			return domain.ErrInvalidInput
		}

		if err := r.Accounts.Update(ctx, account); err != nil {
			return err
		}

		tx := &models.Transaction{
			AccountID:       account.ID,
			Type:            input.Type,
			Amount:          input.Amount,
			Source:          input.Source,
			Destination:     input.Destination,
			Reference:       uuid.NewString(),
			TransactionDate: time.Now(),
		}
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return err
		}

		posted = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Transaction %s posted: %s %.2f on account %d", posted.Reference, posted.Type, posted.Amount, posted.AccountID)
	return posted, nil
}

// GetByID returns a transaction. Members can only read transactions on their
// own account.
func (s *TransactionService) GetByID(ctx context.Context, actor domain.Actor, id uint) (*models.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		account, err := s.accountRepo.GetByUserID(ctx, actor.UserID)
		if err != nil || account.ID != tx.AccountID {
			return nil, domain.ErrNotFound
		}
	}

	return tx, nil
}

// ListByAccount returns transactions on one account, newest first. Members
// can only list their own account.
func (s *TransactionService) ListByAccount(ctx context.Context, actor domain.Actor, accountID uint) ([]*models.Transaction, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() && account.UserID != actor.UserID {
		return nil, domain.ErrAccountNotFound
	}

	return s.transactionRepo.GetByAccountID(ctx, accountID)
}

// List returns the full ledger for admins, or the actor's own transactions
// for members.
func (s *TransactionService) List(ctx context.Context, actor domain.Actor, offset, limit int) ([]*models.Transaction, int64, error) {
	if actor.IsAdmin() {
		return s.transactionRepo.List(ctx, offset, limit)
	}

	account, err := s.accountRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrAccountNotFound
		}
		return nil, 0, err
	}

	txs, err := s.transactionRepo.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, 0, err
	}
	return txs, int64(len(txs)), nil
}
