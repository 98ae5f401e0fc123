package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/AkhilKumar-Git/super-hire-ai/internal/ai"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/candidate"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/utils"

	"go.uber.org/zap"
)

// maxContentLength bounds how much of a document is sent to the completion
// service. Profiles are built from this prefix only; the tail is dropped to
// bound cost and latency.
const maxContentLength = 10000

const extractorSystemPrompt = "You are a helpful assistant that extracts and structures candidate information from text."

const extractorPromptTemplate = `Extract candidate information from the following text and match it with the job requirements.

Job Title: %s
Required Skills: %s
Location: %s
Experience Level: %s

Candidate Information:
%s

Extract the following information:
- Name (required)
- Current Role (required)
- Company (required)
- Skills (array of strings, required)
- Email (if available)
- Phone (if available)
- Location (if available)
- Experience (if available)
- Education (if available)
- Profile URL (if available)
- Summary (brief professional summary)
- Match Score (0-100 based on how well they match the job requirements)

Return the result as a JSON object that matches this structure:
{
  "name": string,
  "currentRole": string,
  "company": string,
  "skills": string[],
  "email": string | null,
  "phone": string | null,
  "location": string | null,
  "experience": string | null,
  "education": string | null,
  "profileUrl": string | null,
  "summary": string,
  "matchScore": number,
  "source": string
}`

var (
	namePattern  = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
	emailFinder  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	notSpecified = "Not specified"
)

// Extractor turns one raw document into at most one validated candidate.
type Extractor struct {
	completer ai.Completer
	logger    *zap.Logger
	maxLogLen int
}

// NewExtractor creates a profile extractor backed by the provided completer.
func NewExtractor(completer ai.Completer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{completer: completer, logger: logger, maxLogLen: 200}
}

// Extract asks the completion service for a structured profile and coerces
// the answer into a Candidate. It returns nil, not an error, when the model
// output cannot be shaped into a usable candidate even after the best-effort
// fallback: extraction failure drops the document, never the pipeline.
func (e *Extractor) Extract(ctx context.Context, doc RawDocument, criteria *Criteria) *candidate.Candidate {
	content := doc.Content
	if len(content) > maxContentLength {
		// Byte-slicing can cut a rune in half; drop the partial sequence.
		content = strings.ToValidUTF8(content[:maxContentLength], "")
	}

	prompt := fmt.Sprintf(extractorPromptTemplate,
		orNotSpecified(criteria.JobTitle),
		orNotSpecified(strings.Join(criteria.Skills, ", ")),
		orNotSpecified(criteria.Location),
		orNotSpecified(criteria.ExperienceLevel),
		content,
	)

	resp, err := e.completer.Complete(ctx, extractorSystemPrompt, prompt)
	if err != nil {
		e.logger.Warn("candidate extraction failed",
			zap.String("url", doc.URL),
			zap.Error(err),
		)
		return nil
	}

	cleaned := ai.StripCodeFence(ai.ExtractContent(resp))

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		e.logger.Debug("candidate response is not valid json, attempting best-effort extraction",
			zap.String("url", doc.URL),
			zap.String("response_preview", utils.TruncateForLog(resp, e.maxLogLen)),
		)
		raw = bestEffortRecord(resp)
		if raw == nil {
			e.logger.Warn("dropping document, no candidate could be extracted",
				zap.String("url", doc.URL),
			)
			return nil
		}
	}

	raw["source"] = candidate.DefaultSource
	raw["skills"] = candidate.CoerceSkills(raw["skills"])

	c, err := candidate.Validate(raw)
	if err != nil {
		var verr *candidate.ValidationError
		if errors.As(err, &verr) {
			e.logger.Warn("dropping candidate that failed validation",
				zap.String("url", doc.URL),
				zap.Strings("invalid_fields", verr.Fields),
			)
		} else {
			e.logger.Warn("dropping candidate that failed validation",
				zap.String("url", doc.URL),
				zap.Error(err),
			)
		}
		return nil
	}

	return c
}

// bestEffortRecord scavenges a minimal candidate record from unparsable model
// output: a literal name field and an email-shaped substring. Returns nil
// when not even a name is present.
func bestEffortRecord(raw string) map[string]any {
	match := namePattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	record := map[string]any{
		"name":       strings.TrimSpace(match[1]),
		"matchScore": 0,
		"skills":     []string{},
	}

	if email := emailFinder.FindString(raw); email != "" {
		record["email"] = email
	}

	return record
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}
