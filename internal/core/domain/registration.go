package domain

import "time"

// RegistrationStep marks how far a signup has progressed. The client submits
// each step separately; a row with step "completed" is a usable account.
type RegistrationStep string

const (
	RegistrationStepName      RegistrationStep = "name"
	RegistrationStepDOB       RegistrationStep = "dob"
	RegistrationStepAccount   RegistrationStep = "account"
	RegistrationStepCompleted RegistrationStep = "completed"
)

// Registration is one step record in the signup log. The log is append-only;
// the latest "completed" record per phone number is authoritative.
type Registration struct {
	ID            string           `json:"id"`
	Step          RegistrationStep `json:"step"`
	FirstName     string           `json:"firstName,omitempty"`
	LastName      string           `json:"lastName,omitempty"`
	Month         string           `json:"month,omitempty"`
	Day           string           `json:"day,omitempty"`
	Year          string           `json:"year,omitempty"`
	PhoneNumber   string           `json:"phoneNumber,omitempty"`
	PasswordHash  string           `json:"passwordHash,omitempty"` // never returned by handlers
	AccountStatus string           `json:"accountStatus,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// DisplayName joins first and last name the way the profile pages show it.
func (r *Registration) DisplayName() string {
	return r.FirstName + " " + r.LastName
}

// Birthday formats month/day/year, or returns "" when incomplete.
func (r *Registration) Birthday() string {
	if r.Month == "" || r.Day == "" || r.Year == "" {
		return ""
	}
	return r.Month + "/" + r.Day + "/" + r.Year
}
