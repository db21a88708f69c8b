package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobSummary is one catalog entry as the listing endpoint returns it.
type JobSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Preview     string    `json:"preview"`
	Applicants  int       `json:"applicants"`
	CreatedAt   time.Time `json:"created_at"`
}

// Page is one fetched catalog page.
type Page struct {
	Jobs       []JobSummary `json:"jobs"`
	TotalPages int          `json:"totalPages"`
}

// Client fetches catalog pages from the listing API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a catalog client against the given API base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// List fetches one catalog page. A failed or malformed fetch degrades to an
// empty single-page result instead of an error: the listing renders its empty
// state and the pager stays sane, while the failure is logged for diagnosis.
func (c *Client) List(ctx context.Context, page int, query string) Page {
	empty := Page{Jobs: nil, TotalPages: 1}

	u, err := url.Parse(c.baseURL + "/api/jobs/getJobs")
	if err != nil {
		c.logger.Warn("catalog fetch skipped, bad base URL", zap.Error(err))
		return empty
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	if query != "" {
		q.Set("q", query)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.logger.Warn("catalog fetch failed", zap.Error(err))
		return empty
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog fetch failed", zap.Int("page", page), zap.Error(err))
		return empty
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog fetch failed",
			zap.Int("page", page),
			zap.Error(fmt.Errorf("unexpected status %d", resp.StatusCode)),
		)
		return empty
	}

	var result Page
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("catalog response malformed", zap.Error(err))
		return empty
	}

	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	return result
}
