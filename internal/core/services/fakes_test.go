package services

import (
	"context"
	"fmt"
	"sync"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// fakeStore is an in-memory backing store shared by the fake repositories.
// The unit-of-work fake serializes WithinTx bodies with txMu, which stands in
// for row locking: concurrent approvals cannot interleave.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	nextID       uint
	users        map[uint]*models.User
	accounts     map[uint]*models.Account
	loans        map[uint]*models.Loan
	loanTypes    map[uint]*models.LoanType
	loanConfig   *models.LoanConfiguration
	transactions map[uint]*models.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[uint]*models.User),
		accounts:     make(map[uint]*models.Account),
		loans:        make(map[uint]*models.Loan),
		loanTypes:    make(map[uint]*models.LoanType),
		transactions: make(map[uint]*models.Transaction),
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

// addUser seeds a user row
func (s *fakeStore) addUser(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.id()
	s.users[u.ID] = &u
	return &u
}

// addAccount seeds an account row
func (s *fakeStore) addAccount(a models.Account) *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	if a.AccountNumber == "" {
		a.AccountNumber = fmt.Sprintf("3%05d", a.ID)
	}
	s.accounts[a.ID] = &a
	return &a
}

// addLoanType seeds a loan type row
func (s *fakeStore) addLoanType(lt models.LoanType) *models.LoanType {
	s.mu.Lock()
	defer s.mu.Unlock()
	lt.ID = s.id()
	s.loanTypes[lt.ID] = &lt
	return &lt
}

// ---------------------------------------------------------------------------

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = r.s.id()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

// ---------------------------------------------------------------------------

type fakeAccountRepo struct{ s *fakeStore }

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account.ID = r.s.id()
	cp := *account
	r.s.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uint) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAccountRepo) GetByUserID(_ context.Context, userID uint) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAccountRepo) Update(_ context.Context, account *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *account
	r.s.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.accounts, id)
	return nil
}

func (r *fakeAccountRepo) List(_ context.Context, offset, limit int) ([]*models.Account, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Account
	for _, a := range r.s.accounts {
		cp := *a
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAccountRepo) NextAccountNumber(_ context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fmt.Sprintf("3%05d", len(r.s.accounts)+1), nil
}

// ---------------------------------------------------------------------------

type fakeLoanRepo struct{ s *fakeStore }

func (r *fakeLoanRepo) Create(_ context.Context, loan *models.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loan.ID = r.s.id()
	cp := *loan
	r.s.loans[loan.ID] = &cp
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id uint) (*models.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLoanRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeLoanRepo) GetByUserID(_ context.Context, userID uint) ([]*models.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Loan
	for _, l := range r.s.loans {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, loan *models.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *loan
	r.s.loans[loan.ID] = &cp
	return nil
}

func (r *fakeLoanRepo) List(_ context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Loan
	for _, l := range r.s.loans {
		cp := *l
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLoanRepo) SumApprovedByUserID(_ context.Context, userID uint) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum float64
	for _, l := range r.s.loans {
		if l.UserID == userID && l.Status == models.LoanStatusApproved {
			sum += l.Amount
		}
	}
	return sum, nil
}

// ---------------------------------------------------------------------------

type fakeLoanTypeRepo struct{ s *fakeStore }

func (r *fakeLoanTypeRepo) Create(_ context.Context, loanType *models.LoanType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loanType.ID = r.s.id()
	cp := *loanType
	r.s.loanTypes[loanType.ID] = &cp
	return nil
}

func (r *fakeLoanTypeRepo) GetByID(_ context.Context, id uint) (*models.LoanType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lt, ok := r.s.loanTypes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *lt
	return &cp, nil
}

func (r *fakeLoanTypeRepo) GetByName(_ context.Context, name string) (*models.LoanType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, lt := range r.s.loanTypes {
		if lt.Name == name {
			cp := *lt
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoanTypeRepo) Update(_ context.Context, loanType *models.LoanType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *loanType
	r.s.loanTypes[loanType.ID] = &cp
	return nil
}

func (r *fakeLoanTypeRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.loanTypes, id)
	return nil
}

func (r *fakeLoanTypeRepo) List(_ context.Context) ([]*models.LoanType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.LoanType
	for _, lt := range r.s.loanTypes {
		cp := *lt
		out = append(out, &cp)
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type fakeLoanConfigRepo struct{ s *fakeStore }

func (r *fakeLoanConfigRepo) Get(_ context.Context) (*models.LoanConfiguration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.loanConfig == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r.s.loanConfig
	return &cp, nil
}

func (r *fakeLoanConfigRepo) Create(_ context.Context, config *models.LoanConfiguration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	config.ID = r.s.id()
	cp := *config
	r.s.loanConfig = &cp
	return nil
}

func (r *fakeLoanConfigRepo) Update(_ context.Context, config *models.LoanConfiguration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *config
	r.s.loanConfig = &cp
	return nil
}

// ---------------------------------------------------------------------------

type fakeTransactionRepo struct{ s *fakeStore }

func (r *fakeTransactionRepo) Create(_ context.Context, tx *models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx.ID = r.s.id()
	cp := *tx
	r.s.transactions[tx.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id uint) (*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTransactionRepo) GetByAccountID(_ context.Context, accountID uint) ([]*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range r.s.transactions {
		if tx.AccountID == accountID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) List(_ context.Context, offset, limit int) ([]*models.Transaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range r.s.transactions {
		cp := *tx
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// ---------------------------------------------------------------------------

type fakeUnitOfWork struct{ s *fakeStore }

func (u *fakeUnitOfWork) WithinTx(_ context.Context, fn func(r repositories.Repos) error) error {
	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()
	return fn(repositories.Repos{
		Loans:        &fakeLoanRepo{u.s},
		Accounts:     &fakeAccountRepo{u.s},
		Transactions: &fakeTransactionRepo{u.s},
	})
}
