package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the per-user account record. It doubles as the ledger entry:
// Balance is only ever mutated through the ledger credit/debit primitives.
type Profile struct {
	Name         string          `json:"name"`
	ProfileImage string          `json:"profileImage"`
	Background   string          `json:"background"`
	Balance      decimal.Decimal `json:"balance"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewProfile returns a zero-balance profile for a name seen for the first time.
func NewProfile(name string, now time.Time) *Profile {
	return &Profile{
		Name:      name,
		Balance:   decimal.Zero,
		UpdatedAt: now,
	}
}
