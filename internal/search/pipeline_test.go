package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

// markerCompleter answers extraction prompts based on a marker embedded in
// the document content, so responses stay deterministic under concurrency.
type markerCompleter struct {
	mu        sync.Mutex
	responses map[string]string
	calls     int
}

func (m *markerCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for marker, response := range m.responses {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}
	return "", errors.New("no response configured")
}

func (m *markerCompleter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type fixtureRetriever struct {
	docs []RawDocument
	err  error
}

func (f *fixtureRetriever) Retrieve(context.Context, *Criteria) ([]RawDocument, error) {
	return f.docs, f.err
}

func candidateJSON(name string, score int) string {
	return fmt.Sprintf(`{"name": %q, "currentRole": "Engineer", "company": "Acme", "skills": ["Go"], "matchScore": %d}`, name, score)
}

func newTestPipeline(retriever Retriever, completer *markerCompleter, cfg Config) *Pipeline {
	parserStub := &stubCompleter{err: errors.New("parser upstream down")}
	return NewPipeline(
		NewParser(parserStub, zap.NewNop()),
		retriever,
		NewExtractor(completer, zap.NewNop()),
		cfg,
		zap.NewNop(),
	)
}

func streamFixtures(n int, qualifying map[int]bool) (*fixtureRetriever, *markerCompleter) {
	docs := make([]RawDocument, 0, n)
	responses := make(map[string]string, n)
	for i := 0; i < n; i++ {
		marker := fmt.Sprintf("doc-%02d", i)
		docs = append(docs, RawDocument{URL: "https://example.com/" + marker, Content: marker})
		score := 50
		if qualifying[i] {
			score = 90
		}
		responses[marker] = candidateJSON(fmt.Sprintf("c%d", i), score)
	}
	return &fixtureRetriever{docs: docs}, &markerCompleter{responses: responses}
}

func TestSearchEmptyQueryIsInvariantViolation(t *testing.T) {
	pipeline := newTestPipeline(&fixtureRetriever{}, &markerCompleter{}, Config{})

	if _, err := pipeline.Search(context.Background(), "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSearchEndToEnd(t *testing.T) {
	retriever := &fixtureRetriever{docs: []RawDocument{
		{URL: "https://linkedin.com/in/johndoe", Content: "doc-john"},
		{URL: "https://linkedin.com/in/janesmith", Content: "doc-jane"},
	}}
	completer := &markerCompleter{responses: map[string]string{
		"doc-john": candidateJSON("John Doe", 94),
		"doc-jane": candidateJSON("Jane Smith", 88),
	}}

	pipeline := newTestPipeline(retriever, completer, Config{})

	results, err := pipeline.Search(context.Background(), "Senior React developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(results))
	}
	if results[0].Name != "John Doe" || results[1].Name != "Jane Smith" {
		t.Fatalf("retrieval order not preserved: %s, %s", results[0].Name, results[1].Name)
	}
	if results[0].MatchScore != 94 || results[1].MatchScore != 88 {
		t.Fatalf("unexpected scores: %v, %v", results[0].MatchScore, results[1].MatchScore)
	}
}

func TestSearchAdmitsQualifyingInOrderAndConsumesAll(t *testing.T) {
	qualifying := map[int]bool{3: true, 7: true, 9: true, 12: true}
	retriever, completer := streamFixtures(15, qualifying)

	pipeline := newTestPipeline(retriever, completer, Config{MinScore: 80, MaxResults: 10})

	results, err := pipeline.Search(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"c3", "c7", "c9", "c12"}
	if len(results) != len(expected) {
		t.Fatalf("expected %d candidates, got %d", len(expected), len(results))
	}
	for i, c := range results {
		if c.Name != expected[i] {
			t.Fatalf("expected %s at position %d, got %s", expected[i], i, c.Name)
		}
	}

	// Fewer than 10 qualify, so every document is consumed.
	if got := completer.callCount(); got != 15 {
		t.Fatalf("expected 15 extractions, got %d", got)
	}
}

func TestSearchStopsPullingAtResultCap(t *testing.T) {
	all := make(map[int]bool, 15)
	for i := 0; i < 15; i++ {
		all[i] = true
	}
	retriever, completer := streamFixtures(15, all)

	pipeline := newTestPipeline(retriever, completer, Config{MinScore: 80, MaxResults: 10})

	results, err := pipeline.Search(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 10 {
		t.Fatalf("expected 10 candidates, got %d", len(results))
	}
	if got := completer.callCount(); got != 10 {
		t.Fatalf("expected extraction to stop at the cap, got %d calls", got)
	}
}

func TestSearchSkipsFailedExtractions(t *testing.T) {
	retriever := &fixtureRetriever{docs: []RawDocument{
		{URL: "a", Content: "doc-good"},
		{URL: "b", Content: "doc-bad"},
		{URL: "c", Content: "doc-also-good"},
	}}
	completer := &markerCompleter{responses: map[string]string{
		"doc-good":      candidateJSON("Good", 90),
		"doc-bad":       "no json here at all",
		"doc-also-good": candidateJSON("Also Good", 85),
	}}

	pipeline := newTestPipeline(retriever, completer, Config{})

	results, err := pipeline.Search(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(results))
	}
	if results[0].Name != "Good" || results[1].Name != "Also Good" {
		t.Fatalf("unexpected order: %s, %s", results[0].Name, results[1].Name)
	}
}

func TestSearchRetrieverErrorYieldsEmptyResult(t *testing.T) {
	pipeline := newTestPipeline(&fixtureRetriever{err: errors.New("provider down")}, &markerCompleter{}, Config{})

	results, err := pipeline.Search(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("degraded retrieval must not surface an error, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result, got %d", len(results))
	}
}

func TestSearchParallelPreservesRetrievalOrder(t *testing.T) {
	qualifying := map[int]bool{0: true, 2: true, 4: true, 6: true, 8: true}
	retriever, completer := streamFixtures(10, qualifying)

	pipeline := newTestPipeline(retriever, completer, Config{MinScore: 80, MaxResults: 10, Parallelism: 4})

	results, err := pipeline.Search(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"c0", "c2", "c4", "c6", "c8"}
	if len(results) != len(expected) {
		t.Fatalf("expected %d candidates, got %d", len(expected), len(results))
	}
	for i, c := range results {
		if c.Name != expected[i] {
			t.Fatalf("expected %s at position %d, got %s", expected[i], i, c.Name)
		}
	}
}
