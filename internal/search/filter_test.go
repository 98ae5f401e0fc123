package search

import (
	"testing"

	"github.com/AkhilKumar-Git/super-hire-ai/internal/candidate"
)

func scored(name string, score float64) *candidate.Candidate {
	return &candidate.Candidate{Name: name, MatchScore: score, Skills: []string{}}
}

func TestFilterAdmitsByThresholdPreservingOrder(t *testing.T) {
	stream := make([]*candidate.Candidate, 0, 15)
	qualifying := map[int]bool{3: true, 7: true, 9: true, 12: true}
	for i := 0; i < 15; i++ {
		score := 50.0
		if qualifying[i] {
			score = 90
		}
		stream = append(stream, scored(names[i], score))
	}

	admitted := Filter(stream, 80, 10)

	if len(admitted) != 4 {
		t.Fatalf("expected 4 admitted, got %d", len(admitted))
	}

	expected := []string{names[3], names[7], names[9], names[12]}
	for i, c := range admitted {
		if c.Name != expected[i] {
			t.Fatalf("expected %s at position %d, got %s", expected[i], i, c.Name)
		}
	}
}

func TestFilterStopsAtCap(t *testing.T) {
	stream := make([]*candidate.Candidate, 0, 15)
	for i := 0; i < 15; i++ {
		stream = append(stream, scored(names[i], 95))
	}

	admitted := Filter(stream, 80, 10)

	if len(admitted) != 10 {
		t.Fatalf("expected 10 admitted, got %d", len(admitted))
	}

	for i, c := range admitted {
		if c.Name != names[i] {
			t.Fatalf("expected %s at position %d, got %s", names[i], i, c.Name)
		}
	}
}

func TestFilterBoundaryScore(t *testing.T) {
	admitted := Filter([]*candidate.Candidate{scored("edge", 80)}, 80, 10)
	if len(admitted) != 1 {
		t.Fatalf("score equal to threshold must be admitted")
	}
}

var names = []string{
	"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7",
	"c8", "c9", "c10", "c11", "c12", "c13", "c14",
}
