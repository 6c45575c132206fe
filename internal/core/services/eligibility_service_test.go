package services

import (
	"context"
	"testing"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEligibilityService(s *fakeStore, defaultMultiplier float64) *EligibilityService {
	return NewEligibilityService(
		&fakeAccountRepo{s},
		&fakeLoanRepo{s},
		&fakeLoanConfigRepo{s},
		defaultMultiplier,
	)
}

func TestComputeEligibilityFormula(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(models.User{Name: "Achieng", Email: "achieng@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	store.addAccount(models.Account{UserID: user.ID, ShareBalance: 100, DepositBalance: 50})

	svc := newEligibilityService(store, 3)

	elig, err := svc.Compute(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 150.0, elig.CapitalPosition)
	assert.Equal(t, 50.0, elig.CurrentDeposits)
	assert.Equal(t, 0.0, elig.CurrentLoans)
	assert.Equal(t, 450.0, elig.EligibleAmount)
}

func TestComputeEligibilitySubtractsApprovedLoans(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(models.User{Name: "Baraka", Email: "baraka@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	account := store.addAccount(models.Account{UserID: user.ID, ShareBalance: 100, DepositBalance: 50})

	loanRepo := &fakeLoanRepo{store}
	require.NoError(t, loanRepo.Create(context.Background(), &models.Loan{
		UserID: user.ID, AccountID: account.ID, Amount: 400, Balance: 400, Status: models.LoanStatusApproved,
	}))
	// Pending and rejected loans never count against eligibility
	require.NoError(t, loanRepo.Create(context.Background(), &models.Loan{
		UserID: user.ID, AccountID: account.ID, Amount: 100, Balance: 100, Status: models.LoanStatusPending,
	}))
	require.NoError(t, loanRepo.Create(context.Background(), &models.Loan{
		UserID: user.ID, AccountID: account.ID, Amount: 900, Balance: 900, Status: models.LoanStatusRejected,
	}))

	svc := newEligibilityService(store, 3)

	elig, err := svc.Compute(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 400.0, elig.CurrentLoans)
	assert.Equal(t, 50.0, elig.EligibleAmount)
}

func TestComputeEligibilityNeverNegative(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(models.User{Name: "Chebet", Email: "chebet@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	account := store.addAccount(models.Account{UserID: user.ID, ShareBalance: 10, DepositBalance: 0})

	loanRepo := &fakeLoanRepo{store}
	require.NoError(t, loanRepo.Create(context.Background(), &models.Loan{
		UserID: user.ID, AccountID: account.ID, Amount: 500, Balance: 500, Status: models.LoanStatusApproved,
	}))

	svc := newEligibilityService(store, 3)

	elig, err := svc.Compute(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, elig.EligibleAmount)
}

func TestComputeEligibilityZeroCapital(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(models.User{Name: "Dada", Email: "dada@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	store.addAccount(models.Account{UserID: user.ID})

	svc := newEligibilityService(store, 3)

	elig, err := svc.Compute(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, elig.EligibleAmount)
	assert.Equal(t, 0.0, elig.CapitalPosition)
}

func TestComputeEligibilityMissingAccount(t *testing.T) {
	store := newFakeStore()
	svc := newEligibilityService(store, 3)

	_, err := svc.Compute(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestMultiplierRowOverridesDefault(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(models.User{Name: "Ekisa", Email: "ekisa@example.com", Role: models.RoleUser, Status: models.UserStatusActive})
	store.addAccount(models.Account{UserID: user.ID, ShareBalance: 100, DepositBalance: 50})

	svc := newEligibilityService(store, 3)

	// No configuration row: default applies
	assert.Equal(t, 3.0, svc.Multiplier(context.Background()))

	cfgRepo := &fakeLoanConfigRepo{store}
	require.NoError(t, cfgRepo.Create(context.Background(), &models.LoanConfiguration{MaxLoanMultiplier: 2}))

	assert.Equal(t, 2.0, svc.Multiplier(context.Background()))

	elig, err := svc.Compute(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, elig.EligibleAmount)
}
