package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormUnitOfWork implements UnitOfWork over a gorm database
type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new unit of work
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

// WithinTx runs fn inside a single database transaction. All repositories
// handed to fn are bound to that transaction; an error from fn rolls
// everything back.
func (u *gormUnitOfWork) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos{
			Loans:        &loanRepository{db: tx},
			Accounts:     &accountRepository{db: tx},
			Transactions: &transactionRepository{db: tx},
		}
		return fn(r)
	})
}
