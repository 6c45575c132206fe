package services

import (
	"context"
	"testing"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionTestEnv(t *testing.T) (*fakeStore, *TransactionService, *models.User, *models.Account) {
	t.Helper()

	store := newFakeStore()
	user := store.addUser(models.User{Name: "Mumbi", Email: "mumbi@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	account := store.addAccount(models.Account{UserID: user.ID, ShareBalance: 100, DepositBalance: 50})

	svc := NewTransactionService(&fakeTransactionRepo{store}, &fakeAccountRepo{store}, &fakeUnitOfWork{store})
	return store, svc, user, account
}

func TestPostDepositCreditsBalance(t *testing.T) {
	store, svc, _, account := newTransactionTestEnv(t)

	tx, err := svc.Post(context.Background(), &PostTransactionInput{
		AccountID: account.ID,
		Type:      models.TxTypeDeposit,
		Amount:    25,
		Source:    "mpesa",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TxTypeDeposit, tx.Type)
	assert.NotEmpty(t, tx.Reference)
	assert.False(t, tx.TransactionDate.IsZero())

	updated, err := (&fakeAccountRepo{store}).GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.DepositBalance)
	// Share balance is untouched by ledger postings
	assert.Equal(t, 100.0, updated.ShareBalance)
}

func TestPostWithdrawalDebitsBalance(t *testing.T) {
	store, svc, _, account := newTransactionTestEnv(t)

	_, err := svc.Post(context.Background(), &PostTransactionInput{
		AccountID: account.ID,
		Type:      models.TxTypeWithdrawal,
		Amount:    30,
	})
	require.NoError(t, err)

	updated, err := (&fakeAccountRepo{store}).GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.DepositBalance)
}

func TestPostLoanRepaymentDebitsBalance(t *testing.T) {
	store, svc, _, account := newTransactionTestEnv(t)

	_, err := svc.Post(context.Background(), &PostTransactionInput{
		AccountID: account.ID,
		Type:      models.TxTypeLoanRepayment,
		Amount:    50,
	})
	require.NoError(t, err)

	updated, err := (&fakeAccountRepo{store}).GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.DepositBalance)
}

func TestPostInsufficientFunds(t *testing.T) {
	store, svc, _, account := newTransactionTestEnv(t)

	_, err := svc.Post(context.Background(), &PostTransactionInput{
		AccountID: account.ID,
		Type:      models.TxTypeWithdrawal,
		Amount:    51,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Neither the balance nor the ledger changed
	updated, err := (&fakeAccountRepo{store}).GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.DepositBalance)

	txs, err := (&fakeTransactionRepo{store}).GetByAccountID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestPostUnknownAccount(t *testing.T) {
	_, svc, _, _ := newTransactionTestEnv(t)

	_, err := svc.Post(context.Background(), &PostTransactionInput{
		AccountID: 999,
		Type:      models.TxTypeDeposit,
		Amount:    10,
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTransactionVisibilityScopedToOwner(t *testing.T) {
	store, svc, user, account := newTransactionTestEnv(t)
	other := store.addUser(models.User{Name: "Kamau", Email: "kamau@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	store.addAccount(models.Account{UserID: other.ID, DepositBalance: 10})

	tx, err := svc.Post(context.Background(), &PostTransactionInput{
		AccountID: account.ID,
		Type:      models.TxTypeDeposit,
		Amount:    25,
	})
	require.NoError(t, err)

	owner := domain.Actor{UserID: user.ID, Role: models.RoleUser}
	stranger := domain.Actor{UserID: other.ID, Role: models.RoleUser}
	admin := domain.Actor{UserID: 1, Role: models.RoleAdmin}

	got, err := svc.GetByID(context.Background(), owner, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)

	_, err = svc.GetByID(context.Background(), stranger, tx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), admin, tx.ID)
	assert.NoError(t, err)

	// Listing by account honors the same scoping
	_, err = svc.ListByAccount(context.Background(), stranger, account.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	txs, err := svc.ListByAccount(context.Background(), owner, account.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}
