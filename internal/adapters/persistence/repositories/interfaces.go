package repositories

import (
	"context"

	"msacco-api/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// AccountRepository defines account repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Account, error)
	// GetByIDForUpdate reads the account row under a FOR UPDATE lock.
	// Only meaningful inside a unit-of-work transaction.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Account, int64, error)
	NextAccountNumber(ctx context.Context) (string, error)
}

// LoanTypeRepository defines loan type repository interface
type LoanTypeRepository interface {
	Create(ctx context.Context, loanType *models.LoanType) error
	GetByID(ctx context.Context, id uint) (*models.LoanType, error)
	GetByName(ctx context.Context, name string) (*models.LoanType, error)
	Update(ctx context.Context, loanType *models.LoanType) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.LoanType, error)
}

// LoanConfigRepository defines loan configuration repository interface
type LoanConfigRepository interface {
	Get(ctx context.Context) (*models.LoanConfiguration, error)
	Create(ctx context.Context, config *models.LoanConfiguration) error
	Update(ctx context.Context, config *models.LoanConfiguration) error
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	// GetByIDForUpdate reads the loan row under a FOR UPDATE lock.
	// Only meaningful inside a unit-of-work transaction.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error)
	SumApprovedByUserID(ctx context.Context, userID uint) (float64, error)
}

// TransactionRepository defines transaction repository interface
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByAccountID(ctx context.Context, accountID uint) ([]*models.Transaction, error)
	List(ctx context.Context, offset, limit int) ([]*models.Transaction, int64, error)
}

// Repos bundles the repositories that participate in a unit of work.
// Inside WithinTx every repository is bound to the same database transaction.
type Repos struct {
	Loans        LoanRepository
	Accounts     AccountRepository
	Transactions TransactionRepository
}

// UnitOfWork runs a function within a single database transaction so that
// loan transitions and the balance adjustments they trigger commit or roll
// back together.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
