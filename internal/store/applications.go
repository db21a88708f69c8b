package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const applicationColumns = `id, intake_type, job_id, name, email, phone,
	address, city, state, country, years_of_exp, degree, year_of_passing,
	gender, marital_status, details_of_skills, resume_file, created_at`

// CreateApplication inserts a submitted intake and returns its ID.
func (s *Store) CreateApplication(ctx context.Context, a *Application) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO applications (intake_type, job_id, name, email, phone,
		        address, city, state, country, years_of_exp, degree,
		        year_of_passing, gender, marital_status, details_of_skills,
		        resume_file)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id`,
		a.IntakeType, a.JobID, a.Name, a.Email, a.Phone,
		a.Address, a.City, a.State, a.Country, a.YearsOfExp, a.Degree,
		a.YearOfPassing, a.Gender, a.MaritalStatus, a.DetailsOfSkills,
		a.ResumeFile,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create application: %w", err)
	}
	return id, nil
}

// ListApplicationsByJob retrieves every application submitted for a posting,
// newest first.
func (s *Store) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE job_id = $1 AND intake_type = 'job'
		 ORDER BY created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

// ListRegistrations retrieves every open registration, newest first.
func (s *Store) ListRegistrations(ctx context.Context) ([]Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE intake_type = 'register'
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanApplications(rows pgxRows) ([]Application, error) {
	var apps []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.IntakeType, &a.JobID, &a.Name, &a.Email,
			&a.Phone, &a.Address, &a.City, &a.State, &a.Country, &a.YearsOfExp,
			&a.Degree, &a.YearOfPassing, &a.Gender, &a.MaritalStatus,
			&a.DetailsOfSkills, &a.ResumeFile, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}
	return apps, nil
}
