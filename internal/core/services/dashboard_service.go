package services

import (
	"context"
	"time"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService aggregates figures for dashboard views. It queries the
// database directly; these are read-only reporting queries with no business
// rules attached.
type DashboardService struct {
	db          *gorm.DB
	eligibility *EligibilityService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, eligibility *EligibilityService) *DashboardService {
	return &DashboardService{db: db, eligibility: eligibility}
}

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// Membership
	TotalMembers     int64 `json:"total_members"`
	ActiveMembers    int64 `json:"active_members"`
	SuspendedMembers int64 `json:"suspended_members"`

	// Book balances
	TotalShareBalance   float64 `json:"total_share_balance"`
	TotalDepositBalance float64 `json:"total_deposit_balance"`

	// Lending
	TotalLoans     int64   `json:"total_loans"`
	PendingLoans   int64   `json:"pending_loans"`
	ApprovedLoans  int64   `json:"approved_loans"`
	RejectedLoans  int64   `json:"rejected_loans"`
	SettledLoans   int64   `json:"settled_loans"`
	ApprovedAmount float64 `json:"approved_amount"`

	// This month
	LoansThisMonth  int64   `json:"loans_this_month"`
	AmountThisMonth float64 `json:"amount_this_month"`

	// Recent activity
	RecentLoans []LoanSummary `json:"recent_loans"`
}

// LoanSummary represents a loan line on the dashboard
type LoanSummary struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberDashboardData represents a member's dashboard data
type MemberDashboardData struct {
	ShareBalance       float64               `json:"share_balance"`
	DepositBalance     float64               `json:"deposit_balance"`
	Eligibility        *domain.Eligibility   `json:"eligibility"`
	TotalLoans         int64                 `json:"total_loans"`
	ActiveLoanBalance  float64               `json:"active_loan_balance"`
	RecentTransactions []*models.Transaction `json:"recent_transactions"`
}

// GetAdminDashboard returns figures across the whole cooperative
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// Membership counts
	s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&data.TotalMembers)
	s.db.WithContext(ctx).Model(&models.User{}).Where("role = ? AND status = ?", models.RoleUser, models.UserStatusActive).Count(&data.ActiveMembers)
	s.db.WithContext(ctx).Model(&models.User{}).Where("role = ? AND status = ?", models.RoleUser, models.UserStatusSuspended).Count(&data.SuspendedMembers)

	// Book balances
	s.db.WithContext(ctx).Model(&models.Account{}).Select("COALESCE(SUM(share_balance), 0)").Scan(&data.TotalShareBalance)
	s.db.WithContext(ctx).Model(&models.Account{}).Select("COALESCE(SUM(deposit_balance), 0)").Scan(&data.TotalDepositBalance)

	// Loan counts by status
	s.db.WithContext(ctx).Model(&models.Loan{}).Count(&data.TotalLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", models.LoanStatusPending).Count(&data.PendingLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", models.LoanStatusApproved).Count(&data.ApprovedLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", models.LoanStatusRejected).Count(&data.RejectedLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", models.LoanStatusSettled).Count(&data.SettledLoans)

	s.db.WithContext(ctx).Model(&models.Loan{}).
		Where("status = ?", models.LoanStatusApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.ApprovedAmount)

	// This month
	monthStart := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("created_at >= ?", monthStart).Count(&data.LoansThisMonth)
	s.db.WithContext(ctx).Model(&models.Loan{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.AmountThisMonth)

	// Recent loans
	var recent []models.Loan
	s.db.WithContext(ctx).Order("created_at DESC").Limit(5).Find(&recent)
	for _, l := range recent {
		data.RecentLoans = append(data.RecentLoans, LoanSummary{
			ID:        l.ID,
			UserID:    l.UserID,
			Amount:    l.Amount,
			Status:    l.Status,
			CreatedAt: l.CreatedAt,
		})
	}

	return data, nil
}

// GetMemberDashboard returns a member's own position
func (s *DashboardService) GetMemberDashboard(ctx context.Context, userID uint) (*MemberDashboardData, error) {
	data := &MemberDashboardData{}

	var account models.Account
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err == nil {
		data.ShareBalance = account.ShareBalance
		data.DepositBalance = account.DepositBalance

		var txs []*models.Transaction
		s.db.WithContext(ctx).Where("account_id = ?", account.ID).
			Order("transaction_date DESC").Limit(5).Find(&txs)
		data.RecentTransactions = txs
	}

	if elig, err := s.eligibility.Compute(ctx, userID); err == nil {
		data.Eligibility = elig
	}

	s.db.WithContext(ctx).Model(&models.Loan{}).Where("user_id = ?", userID).Count(&data.TotalLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).
		Where("user_id = ? AND status = ?", userID, models.LoanStatusApproved).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&data.ActiveLoanBalance)

	return data, nil
}

// LendingSummary holds the figures for the nightly summary log line
type LendingSummary struct {
	PendingLoans   int64
	ApprovedLoans  int64
	ApprovedAmount float64
	TotalDeposits  float64
}

// GetLendingSummary returns the figures the nightly cron job logs
func (s *DashboardService) GetLendingSummary(ctx context.Context) (*LendingSummary, error) {
	summary := &LendingSummary{}

	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", models.LoanStatusPending).Count(&summary.PendingLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", models.LoanStatusApproved).Count(&summary.ApprovedLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).
		Where("status = ?", models.LoanStatusApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.ApprovedAmount)
	s.db.WithContext(ctx).Model(&models.Account{}).
		Select("COALESCE(SUM(deposit_balance), 0)").
		Scan(&summary.TotalDeposits)

	return summary, nil
}
