package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateJob inserts a new posting and returns it.
func (s *Store) CreateJob(ctx context.Context, title, description string) (*Job, error) {
	var j Job
	err := s.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, description)
		 VALUES ($1, $2)
		 RETURNING id, title, description, created_at, updated_at`,
		title, description,
	).Scan(&j.ID, &j.Title, &j.Description, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &j, nil
}

// GetJob retrieves a posting by ID, including its applicant count.
// Returns nil when the posting does not exist.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	var j Job
	err := s.pool.QueryRow(ctx,
		`SELECT j.id, j.title, j.description, j.created_at, j.updated_at,
		        COUNT(a.id) AS applicants
		 FROM jobs j
		 LEFT JOIN applications a ON a.job_id = j.id
		 WHERE j.id = $1
		 GROUP BY j.id`,
		id,
	).Scan(&j.ID, &j.Title, &j.Description, &j.CreatedAt, &j.UpdatedAt, &j.Applicants)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &j, nil
}

// UpdateJob replaces a posting's title and description.
func (s *Store) UpdateJob(ctx context.Context, id uuid.UUID, title, description string) error {
	result, err := s.pool.Exec(ctx,
		`UPDATE jobs SET title = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		title, description, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteJob removes a posting; its applications go with it (cascade).
func (s *Store) DeleteJob(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so a search term matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListJobs retrieves one reverse-chronological catalog page. An empty query
// returns the unfiltered catalog; otherwise the query is matched as a
// case-insensitive substring against title and description. The returned
// totalPages is always at least 1.
func (s *Store) ListJobs(ctx context.Context, page int, query string, pageSize int) ([]Job, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	pattern := "%" + escapeLike(query) + "%"

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs
		 WHERE $1 = '' OR title ILIKE $2 OR description ILIKE $2`,
		query, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	rows, err := s.pool.Query(ctx,
		`SELECT j.id, j.title, j.description, j.created_at, j.updated_at,
		        COUNT(a.id) AS applicants
		 FROM jobs j
		 LEFT JOIN applications a ON a.job_id = j.id
		 WHERE $1 = '' OR j.title ILIKE $2 OR j.description ILIKE $2
		 GROUP BY j.id
		 ORDER BY j.created_at DESC
		 LIMIT $3 OFFSET $4`,
		query, pattern, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.CreatedAt, &j.UpdatedAt, &j.Applicants); err != nil {
			return nil, 0, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read jobs: %w", err)
	}

	return jobs, totalPages, nil
}
