package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anand/job-board/internal/markup"
	"github.com/anand/job-board/internal/store"
)

// previewLength is how many runes of plain description text the catalog
// listing carries per posting.
const previewLength = 200

// JobRequest is the body of addJob and updateJob.
type JobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// JobSummary is a catalog listing entry: the stored posting plus a plain-text
// preview for card rendering.
type JobSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Preview     string    `json:"preview"`
	Applicants  int       `json:"applicants"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobListResponse is the body of GET /api/jobs/getJobs. totalPages is always
// at least 1 so an empty catalog still renders "Page 1 of 1".
type JobListResponse struct {
	Jobs       []JobSummary `json:"jobs"`
	TotalPages int          `json:"totalPages"`
}

// handleGetJobs returns one catalog page, optionally narrowed by the search
// term. Out-of-range pages come back as an empty list, not an error.
func (s *Server) handleGetJobs(w http.ResponseWriter, r *http.Request) {
	page := parseQueryInt(r, "page", 1, 1)
	query := r.URL.Query().Get("q")

	jobs, totalPages, err := s.store.ListJobs(r.Context(), page, query, s.pageSize)
	if err != nil {
		s.logger.Error("failed to list jobs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch jobs")
		return
	}

	summaries := make([]JobSummary, 0, len(jobs))
	for _, j := range jobs {
		summaries = append(summaries, JobSummary{
			ID:          j.ID,
			Title:       j.Title,
			Description: j.Description,
			Preview:     markup.Preview(j.Description, previewLength),
			Applicants:  j.Applicants,
			CreatedAt:   j.CreatedAt,
		})
	}

	s.jsonResponse(w, http.StatusOK, JobListResponse{Jobs: summaries, TotalPages: totalPages})
}

// handleGetJobDetails returns the full posting including its sanitized
// description markup.
func (s *Server) handleGetJobDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to get job", zap.String("job_id", id.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch job")
		return
	}
	if job == nil {
		notFound := &ErrJobNotFound{JobID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleAddJob creates a posting and signals catalog refresh.
func (s *Server) handleAddJob(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeJobRequest(w, r)
	if !ok {
		return
	}

	job, err := s.store.CreateJob(r.Context(), req.Title, markup.Sanitize(req.Description))
	if err != nil {
		s.logger.Error("failed to create job", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	s.hub.Publish()
	s.logger.Info("job created", zap.String("job_id", job.ID.String()), zap.String("title", job.Title))
	s.jsonResponse(w, http.StatusCreated, job)
}

// handleUpdateJob rewrites a posting in place and signals catalog refresh.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	req, ok := s.decodeJobRequest(w, r)
	if !ok {
		return
	}

	if err := s.store.UpdateJob(r.Context(), id, req.Title, markup.Sanitize(req.Description)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound := &ErrJobNotFound{JobID: id}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}
		s.logger.Error("failed to update job", zap.String("job_id", id.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update job")
		return
	}

	s.hub.Publish()
	s.logger.Info("job updated", zap.String("job_id", id.String()))
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDeleteJob removes a posting together with its applications and
// signals catalog refresh.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if err := s.store.DeleteJob(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound := &ErrJobNotFound{JobID: id}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}
		s.logger.Error("failed to delete job", zap.String("job_id", id.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}

	s.hub.Publish()
	s.logger.Info("job deleted", zap.String("job_id", id.String()))
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeJobRequest decodes and validates a posting body. On failure it has
// already written the error response.
func (s *Server) decodeJobRequest(w http.ResponseWriter, r *http.Request) (JobRequest, bool) {
	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		verr := &ErrValidation{Field: "title", Message: "must not be empty"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return req, false
	}
	if strings.TrimSpace(markup.StripTags(req.Description)) == "" {
		verr := &ErrValidation{Field: "description", Message: "must not be empty"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return req, false
	}

	return req, true
}
