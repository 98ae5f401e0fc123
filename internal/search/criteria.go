package search

import "context"

// Criteria is the structured representation of a user's search query,
// produced once per search invocation and treated as immutable downstream.
type Criteria struct {
	JobTitle        string   `json:"jobTitle"`
	Skills          []string `json:"skills"`
	Location        string   `json:"location,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Keywords        []string `json:"keywords"`
}

// RawDocument is one retrieved source page, consumed exactly once by the
// profile extractor.
type RawDocument struct {
	URL         string `json:"url"`
	Content     string `json:"content"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Retriever produces raw content documents relevant to the criteria. The
// result is finite and bounded by the provider's configured limit.
// Implementations are expected to degrade to fixture data instead of failing;
// a returned error is logged by the pipeline and treated as an empty result.
type Retriever interface {
	Retrieve(ctx context.Context, criteria *Criteria) ([]RawDocument, error)
}
