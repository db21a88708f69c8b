// Package review implements the admin review views over submitted intakes:
// fetching applications and registrations, narrowing them with a filter box,
// and the per-record detail with its resume link.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anand/job-board/internal/store"
)

// Client fetches intake records for review. The session token is sent as the
// cookie the admin gate inspects.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a review client authenticated with the given session token.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Applications fetches the applications submitted against one posting.
func (c *Client) Applications(ctx context.Context, jobID uuid.UUID) ([]store.Application, error) {
	var payload struct {
		Applications []store.Application `json:"applications"`
	}
	path := fmt.Sprintf("/api/application/getApplications/%s", jobID)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.Applications, nil
}

// Registrations fetches the open registrations.
func (c *Client) Registrations(ctx context.Context) ([]store.Application, error) {
	var payload struct {
		Status        string              `json:"status"`
		Registrations []store.Application `json:"registrations"`
	}
	if err := c.get(ctx, "/api/application/getRegistrations", &payload); err != nil {
		return nil, err
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("unexpected registrations status %q", payload.Status)
	}
	return payload.Registrations, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.AddCookie(&http.Cookie{Name: "adminToken", Value: c.token})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("review fetch failed", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// Filter narrows records to those matching the term, case-insensitively,
// across name, email, city and degree. An empty term keeps everything.
func Filter(records []store.Application, term string) []store.Application {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}

	var out []store.Application
	for _, r := range records {
		haystacks := []string{r.Name, r.Email, r.City, r.Degree}
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Detail is the full review view of one record.
type Detail struct {
	store.Application
	ResumeURL string `json:"resume_url"`
}

// NewDetail builds the detail view, linking the stored resume file.
func NewDetail(record store.Application, baseURL string) Detail {
	d := Detail{Application: record}
	if record.ResumeFile != "" {
		d.ResumeURL = baseURL + "/resumes/" + record.ResumeFile
	}
	return d
}
