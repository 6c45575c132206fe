package domain

// Actor identifies who is performing an operation. Core services take it as
// an explicit parameter instead of reading ambient request state.
type Actor struct {
	UserID uint
	Role   string
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}

// Eligibility is a member's borrowing capacity at a point in time. It is
// always recomputed on demand, never stored.
type Eligibility struct {
	EligibleAmount  float64 `json:"eligible_amount"`
	CurrentLoans    float64 `json:"current_loans"`
	CurrentDeposits float64 `json:"current_deposits"`
	CapitalPosition float64 `json:"capital_position"`
}
