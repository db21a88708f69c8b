package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anand/job-board/internal/store"
)

// maxResumeSize caps uploaded resume files at 10 MB.
const maxResumeSize = 10 << 20

// requiredIntakeFields must be non-empty on every submission regardless of
// intake type.
var requiredIntakeFields = []string{"name", "email", "phone"}

// handleApply accepts a multipart intake submission. The type field selects
// between a posting-bound application ("job", which must carry a resolvable
// jobId) and an open registration ("register", which must not).
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeSize)
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	app := &store.Application{
		IntakeType: strings.TrimSpace(r.FormValue("type")),
	}

	switch app.IntakeType {
	case store.IntakeTypeJob:
		jobID, err := uuid.Parse(strings.TrimSpace(r.FormValue("jobId")))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "A job application requires a valid jobId")
			return
		}
		job, err := s.store.GetJob(r.Context(), jobID)
		if err != nil {
			s.logger.Error("failed to resolve job for application", zap.String("job_id", jobID.String()), zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, "Failed to submit application")
			return
		}
		if job == nil {
			s.errorResponse(w, http.StatusBadRequest, "The referenced job does not exist")
			return
		}
		app.JobID = &jobID
	case store.IntakeTypeRegister:
		// No posting reference; a stray jobId is ignored.
	default:
		s.errorResponse(w, http.StatusBadRequest, "type must be job or register")
		return
	}

	for _, field := range requiredIntakeFields {
		if strings.TrimSpace(r.FormValue(field)) == "" {
			verr := &ErrValidation{Field: field, Message: "must not be empty"}
			s.errorResponse(w, HTTPStatus(verr), verr.Error())
			return
		}
	}
	app.Name = strings.TrimSpace(r.FormValue("name"))
	app.Email = strings.TrimSpace(r.FormValue("email"))
	app.Phone = strings.TrimSpace(r.FormValue("phone"))
	app.Address = r.FormValue("address")
	app.City = r.FormValue("city")
	app.State = r.FormValue("state")
	app.Country = r.FormValue("country")
	app.YearsOfExp = r.FormValue("yearsOfExp")
	app.Degree = r.FormValue("degree")
	app.YearOfPassing = r.FormValue("yearOfPassing")
	app.Gender = r.FormValue("gender")
	app.MaritalStatus = r.FormValue("maritalStatus")
	app.DetailsOfSkills = r.FormValue("detailsOfSkills")

	file, header, err := r.FormFile("resumeFile")
	if err != nil {
		verr := &ErrValidation{Field: "resumeFile", Message: "must be attached"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}
	defer file.Close()

	storedName, err := s.saveResume(file, header.Filename)
	if err != nil {
		s.logger.Error("failed to store resume file", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store resume")
		return
	}
	app.ResumeFile = storedName

	id, err := s.store.CreateApplication(r.Context(), app)
	if err != nil {
		// The file must not outlive a failed insert.
		if rmErr := os.Remove(filepath.Join(s.resumeDir, storedName)); rmErr != nil {
			s.logger.Warn("failed to remove orphaned resume file", zap.String("file", storedName), zap.Error(rmErr))
		}
		s.logger.Error("failed to create application", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	s.logger.Info("application submitted",
		zap.String("application_id", id.String()),
		zap.String("type", app.IntakeType),
	)
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      id,
	})
}

// saveResume writes the uploaded file under a collision-free name and returns
// the stored filename.
func (s *Server) saveResume(file io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.resumeDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create resume directory: %w", err)
	}

	storedName := uuid.New().String() + "_" + sanitizeFilename(originalName)
	dst, err := os.Create(filepath.Join(s.resumeDir, storedName))
	if err != nil {
		return "", fmt.Errorf("failed to create resume file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write resume file: %w", err)
	}

	return storedName, nil
}

// sanitizeFilename strips path components and characters that are unsafe in a
// stored filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "resume"
	}
	return name
}

// handleGetApplications lists the applications submitted against one posting,
// together with the posting itself for the review header. Both queries run in
// parallel.
func (s *Server) handleGetApplications(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("jobId"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var (
		job  *store.Job
		apps []store.Application
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		job, err = s.store.GetJob(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = s.store.ListApplicationsByJob(ctx, jobID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to list applications", zap.String("job_id", jobID.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}
	if job == nil {
		notFound := &ErrJobNotFound{JobID: jobID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job":          job,
		"applications": apps,
	})
}

// handleGetRegistrations lists open registrations for the admin review view.
func (s *Server) handleGetRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := s.store.ListRegistrations(r.Context())
	if err != nil {
		s.logger.Error("failed to list registrations", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch registrations")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":        "success",
		"registrations": regs,
	})
}

// handleGetResume serves a stored resume file. The filename is reduced to its
// base so a crafted path cannot escape the resume directory.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(r.PathValue("filename"))
	if filename == "." || filename == ".." || filename == "/" {
		s.errorResponse(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	path := filepath.Join(s.resumeDir, filename)
	if _, err := os.Stat(path); err != nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}
