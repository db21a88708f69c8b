package store

import (
	"time"

	"github.com/google/uuid"
)

// Job is an open posting in the catalog.
type Job struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"` // sanitized markup
	Applicants  int       `json:"applicants"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Intake types distinguish applications bound to a posting from open
// registrations.
const (
	IntakeTypeJob      = "job"
	IntakeTypeRegister = "register"
)

// Application is a submitted intake, either bound to a posting (type "job")
// or unbound (type "register").
type Application struct {
	ID              uuid.UUID  `json:"id"`
	IntakeType      string     `json:"type"`
	JobID           *uuid.UUID `json:"job_id,omitempty"` // set iff IntakeType == "job"
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Address         string     `json:"address,omitempty"`
	City            string     `json:"city,omitempty"`
	State           string     `json:"state,omitempty"`
	Country         string     `json:"country,omitempty"`
	YearsOfExp      string     `json:"years_of_exp,omitempty"`
	Degree          string     `json:"degree,omitempty"`
	YearOfPassing   string     `json:"year_of_passing,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	MaritalStatus   string     `json:"marital_status,omitempty"`
	DetailsOfSkills string     `json:"details_of_skills,omitempty"`
	ResumeFile      string     `json:"resume_file"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Admin is the administrator account.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
}
