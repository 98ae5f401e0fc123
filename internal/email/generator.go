package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AkhilKumar-Git/super-hire-ai/internal/ai"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/candidate"
)

const maxJobDescriptionLength = 5000

const draftSystemPrompt = "You are a recruiting assistant that writes short, personalized outreach " +
	"emails. Keep the tone professional and warm. Respond with the email body only, " +
	"no subject line and no surrounding commentary."

const skillsSystemPrompt = "You are a recruiting assistant that extracts technical skills from job " +
	"descriptions. Respond with a JSON array of skill name strings and nothing else."

// Generator drafts outreach emails and derives skill lists from job
// descriptions. Every method degrades instead of failing: when the model is
// unavailable the caller gets a usable static draft or an empty skill list.
type Generator struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewGenerator(completer ai.Completer, logger *zap.Logger) *Generator {
	return &Generator{
		completer: completer,
		logger:    logger.Named("email"),
	}
}

// Draft produces a personalized outreach email body for the candidate. The
// job description is optional context. On any model failure a static draft
// built from the candidate fields is returned instead.
func (g *Generator) Draft(ctx context.Context, c *candidate.Candidate, jobDescription string) string {
	if c == nil {
		return ""
	}

	prompt := buildDraftPrompt(c, jobDescription)

	raw, err := g.completer.Complete(ctx, draftSystemPrompt, prompt)
	if err != nil {
		g.logger.Warn("outreach drafting failed, using static draft",
			zap.String("candidate", c.Name),
			zap.Error(err),
		)
		return staticDraft(c)
	}

	body := strings.TrimSpace(ai.StripCodeFence(ai.ExtractContent(raw)))
	if body == "" {
		g.logger.Warn("model returned an empty draft, using static draft",
			zap.String("candidate", c.Name),
		)
		return staticDraft(c)
	}

	return body
}

// SkillsFromJobDescription asks the model for the skills a job description
// requires. The description is truncated to keep the prompt bounded. A nil
// completer, a model failure or unparsable output all yield an empty list.
func (g *Generator) SkillsFromJobDescription(ctx context.Context, jobDescription string) []string {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return []string{}
	}
	if len(jobDescription) > maxJobDescriptionLength {
		jobDescription = strings.ToValidUTF8(jobDescription[:maxJobDescriptionLength], "")
	}

	prompt := fmt.Sprintf("Extract the required technical skills from this job description:\n\n%s", jobDescription)

	raw, err := g.completer.Complete(ctx, skillsSystemPrompt, prompt)
	if err != nil {
		g.logger.Warn("skill extraction failed", zap.Error(err))
		return []string{}
	}

	payload := ai.StripCodeFence(ai.ExtractContent(raw))

	var skills []string
	if err := json.Unmarshal([]byte(payload), &skills); err != nil {
		g.logger.Warn("skill extraction returned unparsable output",
			zap.String("payload", payload),
			zap.Error(err),
		)
		return []string{}
	}

	cleaned := []string{}
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill != "" {
			cleaned = append(cleaned, skill)
		}
	}

	return cleaned
}

func buildDraftPrompt(c *candidate.Candidate, jobDescription string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write an outreach email to the following candidate.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Current role: %s at %s\n", c.CurrentRole, c.Company)
	if len(c.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(c.Skills, ", "))
	}
	if c.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", c.Location)
	}
	if c.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", c.Summary)
	}
	if jobDescription = strings.TrimSpace(jobDescription); jobDescription != "" {
		if len(jobDescription) > maxJobDescriptionLength {
			jobDescription = strings.ToValidUTF8(jobDescription[:maxJobDescriptionLength], "")
		}
		fmt.Fprintf(&b, "\nThe role we are hiring for:\n%s\n", jobDescription)
	}

	return b.String()
}

func staticDraft(c *candidate.Candidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", c.Name)
	fmt.Fprintf(&b, "I came across your profile and was impressed by your experience as %s at %s.", c.CurrentRole, c.Company)
	if len(c.Skills) > 0 {
		fmt.Fprintf(&b, " Your background in %s stood out to us.", strings.Join(c.Skills, ", "))
	}
	b.WriteString("\n\nWe are hiring for a role that looks like a strong match, and I would love to tell you more about it. Would you be open to a short call this week?\n\nBest regards")

	return b.String()
}
