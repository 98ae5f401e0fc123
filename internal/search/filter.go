package search

import "github.com/AkhilKumar-Git/super-hire-ai/internal/candidate"

// Default admission settings.
const (
	DefaultMinScore   = 80
	DefaultMaxResults = 10
)

// Admission applies the minimum-score threshold and result-count cap to the
// candidate stream. It holds no state; the pipeline tracks the admitted count.
type Admission struct {
	MinScore   float64
	MaxResults int
}

// Admit reports whether the candidate clears the score threshold.
func (a Admission) Admit(c *candidate.Candidate) bool {
	return c != nil && c.MatchScore >= a.MinScore
}

// Full reports whether the admitted count has reached the result cap.
func (a Admission) Full(admitted int) bool {
	return a.MaxResults > 0 && admitted >= a.MaxResults
}

// Filter applies admission to an already-materialized candidate slice,
// preserving input order and stopping at maxResults admitted candidates.
func Filter(candidates []*candidate.Candidate, minScore float64, maxResults int) []*candidate.Candidate {
	admission := Admission{MinScore: minScore, MaxResults: maxResults}

	admitted := make([]*candidate.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if admission.Full(len(admitted)) {
			break
		}
		if admission.Admit(c) {
			admitted = append(admitted, c)
		}
	}

	return admitted
}
