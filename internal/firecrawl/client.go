package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AkhilKumar-Git/super-hire-ai/internal/search"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	defaultAPIURL = "https://api.firecrawl.dev/v1"
	searchPath    = "/search"
	contentType   = "application/json"

	// DefaultLimit bounds how many documents one search retrieves.
	DefaultLimit = 5

	// siteFilter scopes provider queries to public profile pages.
	siteFilter = "site:linkedin.com/in"
)

// Client talks to the Firecrawl search API and maps its results onto raw
// documents. It implements search.Retriever and never aborts the pipeline:
// any provider failure degrades to a fixed fixture set.
type Client struct {
	APIURL     string
	HTTPClient *http.Client

	apiKey string
	limit  int
	logger *zap.Logger
}

// New creates a Firecrawl client. An empty apiKey is a valid configuration:
// the client then always serves fixture data.
func New(apiKey string, limit int, logger *zap.Logger) *Client {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		APIURL: defaultAPIURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey: apiKey,
		limit:  limit,
		logger: logger,
	}
}

type searchRequest struct {
	Query         string        `json:"query"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type searchResponse struct {
	Success bool  `json:"success"`
	Data    []any `json:"data"`
}

type searchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
	Content     string `json:"content"`
}

// Retrieve builds one provider query from the criteria and returns the
// mapped documents, bounded by the configured limit. The returned error is
// always nil; failures are logged and degrade to the fixture set.
func (c *Client) Retrieve(ctx context.Context, criteria *search.Criteria) ([]search.RawDocument, error) {
	query := BuildQuery(criteria)

	if strings.TrimSpace(c.apiKey) == "" {
		c.logger.Warn("firecrawl api key is not configured, serving fixture documents",
			zap.String("query", query),
		)
		return FixtureDocuments(), nil
	}

	docs, err := c.search(ctx, query)
	if err != nil {
		c.logger.Warn("firecrawl search degraded to fixture documents",
			zap.String("query", query),
			zap.Error(err),
		)
		return FixtureDocuments(), nil
	}

	c.logger.Debug("firecrawl search succeeded",
		zap.String("query", query),
		zap.Int("count", len(docs)),
	)

	return docs, nil
}

func (c *Client) search(ctx context.Context, query string) ([]search.RawDocument, error) {
	body, err := json.Marshal(searchRequest{
		Query: query,
		Limit: c.limit,
		ScrapeOptions: scrapeOptions{
			Formats:         []string{"markdown"},
			OnlyMainContent: true,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if !payload.Success {
		return nil, fmt.Errorf("provider reported failure")
	}

	return mapResults(payload.Data, c.limit)
}

// mapResults decodes the loosely-typed provider items and maps their content
// fields onto RawDocument. Markdown wins over plain content, which wins over
// the description snippet.
func mapResults(items []any, limit int) ([]search.RawDocument, error) {
	var results []searchResult

	cfg := &mapstructure.DecoderConfig{
		Result:  &results,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	docs := make([]search.RawDocument, 0, len(results))
	for _, r := range results {
		if len(docs) >= limit {
			break
		}

		content := firstNonEmpty(r.Markdown, r.Content, r.Description)

		docs = append(docs, search.RawDocument{
			URL:         r.URL,
			Content:     content,
			Title:       r.Title,
			Description: r.Description,
		})
	}

	return docs, nil
}

// BuildQuery concatenates the criteria into one provider query string: job
// title, skills, an experience phrase, location and the site-scoping filter.
func BuildQuery(criteria *search.Criteria) string {
	parts := make([]string, 0, len(criteria.Skills)+4)

	if title := strings.TrimSpace(criteria.JobTitle); title != "" {
		parts = append(parts, title)
	}
	for _, skill := range criteria.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			parts = append(parts, skill)
		}
	}
	if exp := strings.TrimSpace(criteria.ExperienceLevel); exp != "" {
		parts = append(parts, exp+" experience")
	}
	if location := strings.TrimSpace(criteria.Location); location != "" {
		parts = append(parts, location)
	}
	parts = append(parts, siteFilter)

	return strings.Join(parts, " ")
}

// FixtureDocuments is the fixed two-item set served whenever the provider is
// unreachable, misconfigured or returns a malformed payload.
func FixtureDocuments() []search.RawDocument {
	return []search.RawDocument{
		{
			URL:     "https://linkedin.com/in/johndoe",
			Content: "John Doe is a Senior Software Engineer at Tech Corp with 5 years of experience in React, Node.js, and TypeScript. He has a Master's degree in Computer Science from Stanford University.",
		},
		{
			URL:     "https://linkedin.com/in/janesmith",
			Content: "Jane Smith is a Full Stack Developer at Web Solutions with 3 years of experience in JavaScript, Python, and AWS. She is based in San Francisco, CA.",
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
