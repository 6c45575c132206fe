package services

import (
	"context"
	"testing"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountTestEnv(t *testing.T) (*fakeStore, *AccountService) {
	t.Helper()
	store := newFakeStore()
	return store, NewAccountService(&fakeAccountRepo{store}, &fakeUserRepo{store})
}

func TestCreateAccountRules(t *testing.T) {
	store, svc := newAccountTestEnv(t)
	member := store.addUser(models.User{Name: "Akinyi", Email: "akinyi@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	admin := store.addUser(models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Status: models.UserStatusActive})
	suspended := store.addUser(models.User{Name: "Owino", Email: "owino@example.com", Role: models.RoleUser, Status: models.UserStatusSuspended})

	account, err := svc.Create(context.Background(), &CreateAccountInput{UserID: member.ID, ShareBalance: 100, DepositBalance: 50})
	require.NoError(t, err)
	assert.Equal(t, member.ID, account.UserID)
	assert.Equal(t, 150.0, account.CapitalPosition())
	assert.Regexp(t, `^3\d{5}$`, account.AccountNumber)

	// One account per member
	_, err = svc.Create(context.Background(), &CreateAccountInput{UserID: member.ID})
	assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)

	// Admins never hold accounts
	_, err = svc.Create(context.Background(), &CreateAccountInput{UserID: admin.ID})
	assert.ErrorIs(t, err, domain.ErrAdminHasNoAccount)

	// Suspended members cannot open accounts
	_, err = svc.Create(context.Background(), &CreateAccountInput{UserID: suspended.ID})
	assert.ErrorIs(t, err, domain.ErrUserNotActive)

	// Unknown member
	_, err = svc.Create(context.Background(), &CreateAccountInput{UserID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountReadScoping(t *testing.T) {
	store, svc := newAccountTestEnv(t)
	member := store.addUser(models.User{Name: "Akinyi", Email: "akinyi@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	other := store.addUser(models.User{Name: "Owino", Email: "owino2@example.com", Role: models.RoleUser, Status: models.UserStatusActive})

	account, err := svc.Create(context.Background(), &CreateAccountInput{UserID: member.ID})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), domain.Actor{UserID: member.ID, Role: models.RoleUser}, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = svc.GetByID(context.Background(), domain.Actor{UserID: other.ID, Role: models.RoleUser}, account.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = svc.GetByID(context.Background(), domain.Actor{UserID: 1, Role: models.RoleAdmin}, account.ID)
	assert.NoError(t, err)

	mine, err := svc.GetMine(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, mine.ID)

	_, err = svc.GetMine(context.Background(), other.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountAdminBalanceCorrection(t *testing.T) {
	store, svc := newAccountTestEnv(t)
	member := store.addUser(models.User{Name: "Akinyi", Email: "akinyi@example.com", Role: models.RoleUser, Status: models.UserStatusActive})

	account, err := svc.Create(context.Background(), &CreateAccountInput{UserID: member.ID, ShareBalance: 100, DepositBalance: 50})
	require.NoError(t, err)

	share := 200.0
	updated, err := svc.Update(context.Background(), account.ID, &UpdateAccountInput{ShareBalance: &share})
	require.NoError(t, err)
	assert.Equal(t, 200.0, updated.ShareBalance)
	// Fields not provided stay put
	assert.Equal(t, 50.0, updated.DepositBalance)
}
