package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Users & Auth Tables
// ============================================================

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User statuses
const (
	UserStatusActive    = "Active"
	UserStatusSuspended = "Suspended"
)

// User represents users table
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PhoneNumber string         `gorm:"size:20" json:"phone_number"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Role        string         `gorm:"size:20;default:'user'" json:"role"`
	Status      string         `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Account *Account `gorm:"foreignKey:UserID" json:"account,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse DTO
type UserResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Accounts
// ============================================================

// Account holds a member's capital position: share and deposit balances.
// One account per member; admins never hold one.
type Account struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	AccountNumber  string         `gorm:"size:20;uniqueIndex;not null" json:"account_number"`
	ShareBalance   float64        `gorm:"type:decimal(15,2);not null;default:0" json:"share_balance"`
	DepositBalance float64        `gorm:"type:decimal(15,2);not null;default:0" json:"deposit_balance"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Account) TableName() string {
	return "accounts"
}

// CapitalPosition is the sum of share and deposit balances
func (a *Account) CapitalPosition() float64 {
	return a.ShareBalance + a.DepositBalance
}

// ============================================================
// Lending Master Tables
// ============================================================

// LoanType is a named lending product
type LoanType struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	InterestRate float64        `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	Duration     int            `gorm:"not null" json:"duration"` // months
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanType) TableName() string {
	return "loan_types"
}

// LoanConfiguration holds the administratively adjustable lending policy.
// A single row is expected; when present its multiplier overrides the
// configured default.
type LoanConfiguration struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	MaxLoanMultiplier float64        `gorm:"type:decimal(5,2);not null" json:"max_loan_multiplier"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanConfiguration) TableName() string {
	return "loan_configurations"
}

// ============================================================
// Loans
// ============================================================

// Loan statuses
const (
	LoanStatusPending  = "Pending"
	LoanStatusApproved = "Approved"
	LoanStatusRejected = "Rejected"
	LoanStatusSettled  = "Settled"
)

// ValidLoanStatus reports whether s is one of the four loan statuses
func ValidLoanStatus(s string) bool {
	switch s {
	case LoanStatusPending, LoanStatusApproved, LoanStatusRejected, LoanStatusSettled:
		return true
	}
	return false
}

// Loan represents loans table. Interest rate and repayment period are
// snapshots taken from the loan type at creation; later edits to the loan
// type never alter existing loans.
type Loan struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"index;not null" json:"user_id"`
	AccountID       uint           `gorm:"index;not null" json:"account_id"`
	LoanTypeID      uint           `gorm:"not null" json:"loan_type_id"`
	Amount          float64        `gorm:"type:decimal(15,2);not null" json:"amount"`
	Balance         float64        `gorm:"type:decimal(15,2);not null" json:"balance"`
	InterestRate    float64        `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	RepaymentPeriod int            `gorm:"not null" json:"repayment_period"` // months
	Status          string         `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Account  *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	LoanType *LoanType `gorm:"foreignKey:LoanTypeID" json:"loan_type,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	AccountID       uint      `json:"account_id"`
	LoanTypeID      uint      `json:"loan_type_id"`
	LoanTypeName    string    `json:"loan_type_name,omitempty"`
	Amount          float64   `json:"amount"`
	Balance         float64   `json:"balance"`
	InterestRate    float64   `json:"interest_rate"`
	RepaymentPeriod int       `json:"repayment_period"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		AccountID:       l.AccountID,
		LoanTypeID:      l.LoanTypeID,
		Amount:          l.Amount,
		Balance:         l.Balance,
		InterestRate:    l.InterestRate,
		RepaymentPeriod: l.RepaymentPeriod,
		Status:          l.Status,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}

	if l.LoanType != nil {
		resp.LoanTypeName = l.LoanType.Name
	}

	return resp
}

// ============================================================
// Transactions
// ============================================================

// Transaction types
const (
	TxTypeDeposit       = "deposit"
	TxTypeWithdrawal    = "withdrawal"
	TxTypeLoanRepayment = "loan_repayment"
)

// Transaction is an immutable record of a balance-affecting event.
// Corrections are posted as new offsetting transactions, never edits.
type Transaction struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AccountID       uint           `gorm:"index;not null" json:"account_id"`
	Type            string         `gorm:"size:20;not null" json:"type"`
	Amount          float64        `gorm:"type:decimal(15,2);not null" json:"amount"`
	Source          string         `gorm:"size:255;not null" json:"source"`
	Destination     string         `gorm:"size:255;not null" json:"destination"`
	Reference       string         `gorm:"size:36;uniqueIndex" json:"reference"`
	TransactionDate time.Time      `gorm:"not null" json:"transaction_date"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Account{},
		&LoanType{},
		&LoanConfiguration{},
		&Loan{},
		&Transaction{},
	)
}
