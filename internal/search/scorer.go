package search

import (
	"math"
	"strings"
)

// Score computes a deterministic 0-100 match score from a candidate's skills
// against required and preferred skill lists. Required skills carry 70% of
// the weight and preferred skills 30%; when no preferred skills are supplied
// their weight is redistributed proportionally onto the required match ratio.
// Matching is case-insensitive and bidirectional: a candidate skill matches
// when either string contains the other.
//
// This score is independent of the model's self-reported match score used by
// the admission filter; callers may use either or both.
func Score(candidateSkills, requiredSkills, preferredSkills []string) int {
	if len(requiredSkills) == 0 {
		return 0
	}

	folded := make([]string, 0, len(candidateSkills))
	for _, s := range candidateSkills {
		folded = append(folded, strings.ToLower(strings.TrimSpace(s)))
	}

	requiredScore := matchRatio(folded, requiredSkills) * 70

	var preferredScore float64
	if len(preferredSkills) > 0 {
		preferredScore = matchRatio(folded, preferredSkills) * 30
	} else {
		preferredScore = 30 * (requiredScore / 70)
	}

	return int(math.Round(math.Min(100, requiredScore+preferredScore)))
}

func matchRatio(candidateSkills, wanted []string) float64 {
	if len(wanted) == 0 {
		return 0
	}

	matched := 0
	for _, skill := range wanted {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		for _, cs := range candidateSkills {
			if cs == "" {
				continue
			}
			if strings.Contains(cs, skill) || strings.Contains(skill, cs) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(wanted))
}
