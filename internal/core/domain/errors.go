package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Account errors
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("user already holds an account")
	ErrAdminHasNoAccount    = errors.New("admins cannot hold accounts")
	ErrUserNotActive        = errors.New("user is not active")
	ErrInsufficientFunds    = errors.New("insufficient funds")
)

// Loan errors
var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrLoanTypeNotFound  = errors.New("loan type not found")
	ErrLoanTypeInUse     = errors.New("loan type name already in use")
	ErrInvalidLoanState  = errors.New("loan is not in a state that permits this transition")
	ErrInvalidLoanStatus = errors.New("invalid loan status")
	ErrBelowDeposits     = errors.New("loan amount must exceed current deposits")
)

// EligibilityError is returned when a requested loan amount exceeds the
// member's eligible amount. It carries the computed figures so the caller
// can self-correct.
type EligibilityError struct {
	Requested      float64
	EligibleAmount float64
	CurrentLoans   float64
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("requested loan amount %.2f exceeds eligible amount %.2f", e.Requested, e.EligibleAmount)
}

// IsEligibilityError reports whether err is an EligibilityError and returns it
func IsEligibilityError(err error) (*EligibilityError, bool) {
	var ee *EligibilityError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
