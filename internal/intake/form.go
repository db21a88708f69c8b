package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Intake types. A job form carries the posting it applies to; a register form
// does not.
const (
	TypeJob      = "job"
	TypeRegister = "register"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission has not finished. At most one submission runs at a time.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// ValidationError reports a field that failed pre-submit validation. No
// network request is made while any field fails.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// fallbackMessage shows when a failed submission carries no server message.
const fallbackMessage = "Submission failed, please try again"

// Form collects intake fields and the resume attachment and submits them as a
// multipart request. On success the form resets for another submission; on
// failure the entered values stay so the visitor can correct and retry.
type Form struct {
	mu         sync.Mutex
	intakeType string
	jobID      string
	fields     map[string]string
	attachment Attachment
	inFlight   bool
	lastError  string
	submitted  bool

	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewForm creates a form of the given intake type. A job form requires the
// posting ID it applies to; a register form must not carry one.
func NewForm(intakeType, jobID, baseURL string, logger *zap.Logger) (*Form, error) {
	switch intakeType {
	case TypeJob:
		if strings.TrimSpace(jobID) == "" {
			return nil, fmt.Errorf("a job form requires the posting ID")
		}
	case TypeRegister:
		jobID = ""
	default:
		return nil, fmt.Errorf("unknown intake type %q", intakeType)
	}

	return &Form{
		intakeType: intakeType,
		jobID:      jobID,
		fields:     make(map[string]string),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		validate:   validator.New(),
		logger:     logger,
	}, nil
}

// Set records a field value.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[field] = value
}

// Field returns the recorded value for a field.
func (f *Form) Field(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[field]
}

// Attach selects the resume file, replacing any previous selection.
func (f *Form) Attach(name string, data []byte) {
	f.attachment.Select(name, data)
}

// Attachment exposes the resume slot.
func (f *Form) Attachment() *Attachment {
	return &f.attachment
}

// Error returns the message of the last failed submission, or "" after a
// success or before any attempt.
func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

// Submitted reports whether the last submission succeeded.
func (f *Form) Submitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

// checkFields validates the required fields. It runs before any network
// traffic; an invalid form never produces a request.
func (f *Form) checkFields() *ValidationError {
	f.mu.Lock()
	name := strings.TrimSpace(f.fields["name"])
	email := strings.TrimSpace(f.fields["email"])
	phone := strings.TrimSpace(f.fields["phone"])
	f.mu.Unlock()

	if name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if err := f.validate.Var(email, "required,email"); err != nil {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if phone == "" {
		return &ValidationError{Field: "phone", Message: "is required"}
	}
	if !f.attachment.Selected() {
		return &ValidationError{Field: "resumeFile", Message: "must be attached"}
	}
	return nil
}

// Submit validates the form and uploads it. While a submission is in flight
// further calls fail with ErrSubmitInFlight. Success clears the fields and
// the attachment; failure keeps them and records the server's message.
func (f *Form) Submit(ctx context.Context) error {
	if verr := f.checkFields(); verr != nil {
		return verr
	}

	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.inFlight = true
	f.submitted = false
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	body, contentType, err := f.encode()
	if err != nil {
		return f.fail(fallbackMessage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/api/application/apply/resumes", body)
	if err != nil {
		return f.fail(fallbackMessage, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return f.fail(fallbackMessage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return f.fail(serverMessage(resp.Body), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	f.mu.Lock()
	f.fields = make(map[string]string)
	f.lastError = ""
	f.submitted = true
	f.mu.Unlock()
	f.attachment.Clear()

	return nil
}

// encode builds the multipart body. Every accumulated field goes out; type
// and jobId are owned by the form itself, so stray entries under those names
// cannot shadow them. jobId is sent only on a job form.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	f.mu.Lock()
	fields := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		if k == "type" || k == "jobId" {
			continue
		}
		fields[k] = v
	}
	intakeType := f.intakeType
	jobID := f.jobID
	f.mu.Unlock()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("type", intakeType); err != nil {
		return nil, "", err
	}
	if intakeType == TypeJob {
		if err := w.WriteField("jobId", jobID); err != nil {
			return nil, "", err
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("resumeFile", f.attachment.Name())
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(f.attachment.Bytes()); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// fail records the user-facing message and returns an error carrying it. The
// entered fields and attachment stay for a retry.
func (f *Form) fail(message string, cause error) error {
	f.logger.Warn("submission failed", zap.Error(cause))
	f.mu.Lock()
	f.lastError = message
	f.mu.Unlock()
	return errors.New(message)
}

// serverMessage extracts the message field of an error payload, falling back
// to the generic message when the body carries none.
func serverMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Message == "" {
		return fallbackMessage
	}
	return payload.Message
}
