package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AkhilKumar-Git/super-hire-ai/internal/ai"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/utils"

	"go.uber.org/zap"
)

const parserSystemPrompt = "You are a helpful assistant that parses search queries into structured data."

const parserPromptTemplate = `Extract the following information from the search query:
- Job Title (required)
- Skills (comma-separated list)
- Location (optional)
- Experience Level (entry, mid, senior, etc.)
- Any other relevant keywords

Query: %s

Return the result as a JSON object with the following structure:
{
  "jobTitle": string,
  "skills": string[],
  "location": string | null,
  "experienceLevel": string | null,
  "keywords": string[]
}`

// Parser turns a free-text search query into structured criteria using a
// completion round-trip.
type Parser struct {
	completer ai.Completer
	logger    *zap.Logger
}

// NewParser creates a query parser backed by the provided completer.
func NewParser(completer ai.Completer, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{completer: completer, logger: logger}
}

// Parse never fails: when the completion call errors or its output cannot be
// parsed, a degraded fallback is returned that carries the raw query as the
// job title and its whitespace-separated words as keywords. Precision is
// traded for availability so the pipeline always has usable criteria.
func (p *Parser) Parse(ctx context.Context, query string) *Criteria {
	prompt := fmt.Sprintf(parserPromptTemplate, query)

	raw, err := p.completer.Complete(ctx, parserSystemPrompt, prompt)
	if err != nil {
		p.logger.Warn("query parsing degraded to pass-through",
			zap.String("query", query),
			zap.Error(err),
		)
		return fallbackCriteria(query)
	}

	cleaned := ai.StripCodeFence(ai.ExtractContent(raw))

	var criteria Criteria
	if err := json.Unmarshal([]byte(cleaned), &criteria); err != nil {
		p.logger.Warn("query parsing degraded to pass-through",
			zap.String("query", query),
			zap.String("response_preview", utils.TruncateForLog(raw, 200)),
			zap.Error(err),
		)
		return fallbackCriteria(query)
	}

	if strings.TrimSpace(criteria.JobTitle) == "" {
		criteria.JobTitle = query
	}
	if criteria.Skills == nil {
		criteria.Skills = []string{}
	}
	if criteria.Keywords == nil {
		criteria.Keywords = []string{}
	}

	p.logger.Debug("parsed search query",
		zap.String("job_title", criteria.JobTitle),
		zap.Strings("skills", criteria.Skills),
		zap.String("location", criteria.Location),
		zap.String("experience_level", criteria.ExperienceLevel),
	)

	return &criteria
}

func fallbackCriteria(query string) *Criteria {
	return &Criteria{
		JobTitle: query,
		Skills:   []string{},
		Keywords: strings.Fields(query),
	}
}
