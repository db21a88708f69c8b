package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anand/job-board/internal/store"
)

// multipartBody builds an intake submission body. A nil file omits the
// resume part.
func multipartBody(t *testing.T, fields map[string]string, filename string, file []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("resumeFile", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func submitIntake(t *testing.T, srv *Server, fields map[string]string, filename string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, filename, file)
	req := httptest.NewRequest(http.MethodPost, "/api/application/apply/resumes", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	return w
}

func validFields(extra map[string]string) map[string]string {
	fields := map[string]string{
		"type":  "register",
		"name":  "Asha Rao",
		"email": "asha@example.com",
		"phone": "555-0101",
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

func TestApply_Register(t *testing.T) {
	srv, fs, _ := setupTestServer(t)

	w := submitIntake(t, srv, validFields(map[string]string{"city": "Pune"}), "resume.pdf", []byte("%PDF"))

	require.Equal(t, http.StatusCreated, w.Code)

	regs, err := fs.ListRegistrations(context.Background())
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "Asha Rao", regs[0].Name)
	assert.Equal(t, "Pune", regs[0].City)
	assert.Nil(t, regs[0].JobID)

	// The stored file exists under a prefixed name.
	entries, err := os.ReadDir(srv.resumeDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "resume.pdf")
	assert.Equal(t, regs[0].ResumeFile, entries[0].Name())
}

func TestApply_JobBound(t *testing.T) {
	srv, fs, _ := setupTestServer(t)

	job, err := fs.CreateJob(context.Background(), "Go Engineer", "<p>desc</p>")
	require.NoError(t, err)

	fields := validFields(map[string]string{"type": "job", "jobId": job.ID.String()})
	w := submitIntake(t, srv, fields, "resume.pdf", []byte("%PDF"))

	require.Equal(t, http.StatusCreated, w.Code)

	apps, err := fs.ListApplicationsByJob(context.Background(), job.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].JobID)
	assert.Equal(t, job.ID, *apps[0].JobID)
}

func TestApply_JobRequiresResolvableJobID(t *testing.T) {
	tests := []struct {
		name  string
		jobID func(t *testing.T, fs *fakeStore) string
	}{
		{
			name:  "missing jobId",
			jobID: func(*testing.T, *fakeStore) string { return "" },
		},
		{
			name:  "malformed jobId",
			jobID: func(*testing.T, *fakeStore) string { return "not-a-uuid" },
		},
		{
			name:  "unknown jobId",
			jobID: func(*testing.T, *fakeStore) string { return uuid.NewString() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, fs, _ := setupTestServer(t)

			fields := validFields(map[string]string{"type": "job", "jobId": tt.jobID(t, fs)})
			w := submitIntake(t, srv, fields, "resume.pdf", []byte("%PDF"))

			assert.Equal(t, http.StatusBadRequest, w.Code)

			// Nothing stored, no file left behind.
			regs, _ := fs.ListRegistrations(context.Background())
			assert.Empty(t, regs)
		})
	}
}

func TestApply_RegisterIgnoresStrayJobID(t *testing.T) {
	srv, fs, _ := setupTestServer(t)

	fields := validFields(map[string]string{"jobId": uuid.NewString()})
	w := submitIntake(t, srv, fields, "resume.pdf", []byte("%PDF"))

	require.Equal(t, http.StatusCreated, w.Code)

	regs, err := fs.ListRegistrations(context.Background())
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Nil(t, regs[0].JobID)
}

func TestApply_UnknownType(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	fields := validFields(map[string]string{"type": "walk-in"})
	w := submitIntake(t, srv, fields, "resume.pdf", []byte("%PDF"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "job or register")
}

func TestApply_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{name: "missing name", field: "name"},
		{name: "missing email", field: "email"},
		{name: "missing phone", field: "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := setupTestServer(t)

			fields := validFields(nil)
			fields[tt.field] = "  "
			w := submitIntake(t, srv, fields, "resume.pdf", []byte("%PDF"))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.field)
		})
	}
}

func TestApply_RequiresFile(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	w := submitIntake(t, srv, validFields(nil), "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "resumeFile")
}

func TestApply_FailedInsertRemovesFile(t *testing.T) {
	srv, fs, _ := setupTestServer(t)
	fs.failApps = true

	w := submitIntake(t, srv, validFields(nil), "resume.pdf", []byte("%PDF"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries, err := os.ReadDir(srv.resumeDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed insert must not leave the file behind")
}

func TestApply_SanitizesFilename(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	w := submitIntake(t, srv, validFields(nil), "../../etc/passwd", []byte("data"))

	require.Equal(t, http.StatusCreated, w.Code)

	entries, err := os.ReadDir(srv.resumeDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "..")
	assert.NotContains(t, entries[0].Name(), "/")
}

func TestGetApplications(t *testing.T) {
	srv, fs, _ := setupTestServer(t)

	job, err := fs.CreateJob(context.Background(), "Go Engineer", "<p>desc</p>")
	require.NoError(t, err)

	_, err = fs.CreateApplication(context.Background(), &store.Application{
		IntakeType: store.IntakeTypeJob,
		JobID:      &job.ID,
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Phone:      "555-0101",
		ResumeFile: "abc_resume.pdf",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/application/getApplications/"+job.ID.String(), nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Job          *store.Job          `json:"job"`
		Applications []store.Application `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Job)
	assert.Equal(t, "Go Engineer", resp.Job.Title)
	require.Len(t, resp.Applications, 1)
	assert.Equal(t, "Asha Rao", resp.Applications[0].Name)
}

func TestGetApplications_UnknownJob(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/application/getApplications/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRegistrations(t *testing.T) {
	srv, fs, _ := setupTestServer(t)

	_, err := fs.CreateApplication(context.Background(), &store.Application{
		IntakeType: store.IntakeTypeRegister,
		Name:       "Ben Okafor",
		Email:      "ben@example.com",
		Phone:      "555-0102",
		ResumeFile: "def_resume.pdf",
	})
	require.NoError(t, err)

	t.Run("requires session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/application/getRegistrations", nil)
		w := httptest.NewRecorder()
		srv.routes().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("lists with session", func(t *testing.T) {
		admin := fs.seedAdmin(t, "admin@example.com", "password123")

		req := httptest.NewRequest(http.MethodGet, "/api/application/getRegistrations", nil)
		req.AddCookie(loginCookie(t, srv, admin))
		w := httptest.NewRecorder()
		srv.routes().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Status        string              `json:"status"`
			Registrations []store.Application `json:"registrations"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		require.Len(t, resp.Registrations, 1)
		assert.Equal(t, "Ben Okafor", resp.Registrations[0].Name)
	})
}

func TestGetResume(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	stored := filepath.Join(srv.resumeDir, "abc_resume.pdf")
	require.NoError(t, os.MkdirAll(srv.resumeDir, 0o755))
	require.NoError(t, os.WriteFile(stored, []byte("%PDF content"), 0o644))

	t.Run("serves stored file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/resumes/abc_resume.pdf", nil)
		w := httptest.NewRecorder()
		srv.routes().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "%PDF content", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "abc_resume.pdf")
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/resumes/nope.pdf", nil)
		w := httptest.NewRecorder()
		srv.routes().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain name", input: "resume.pdf", expected: "resume.pdf"},
		{name: "path stripped", input: "../../etc/passwd", expected: "passwd"},
		{name: "spaces replaced", input: "my resume.pdf", expected: "my_resume.pdf"},
		{name: "empty falls back", input: "", expected: "resume"},
		{name: "dot dot falls back", input: "..", expected: "resume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeFilename(tt.input))
		})
	}
}
