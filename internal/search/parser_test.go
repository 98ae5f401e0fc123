package search

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseStructuredResponse(t *testing.T) {
	stub := &stubCompleter{response: `{
		"jobTitle": "Senior React Developer",
		"skills": ["React", "TypeScript"],
		"location": "San Francisco",
		"experienceLevel": "senior",
		"keywords": ["react", "frontend"]
	}`}

	parser := NewParser(stub, zap.NewNop())

	criteria := parser.Parse(context.Background(), "Senior React developer in San Francisco")

	if criteria.JobTitle != "Senior React Developer" {
		t.Fatalf("unexpected job title: %q", criteria.JobTitle)
	}
	if !reflect.DeepEqual(criteria.Skills, []string{"React", "TypeScript"}) {
		t.Fatalf("unexpected skills: %v", criteria.Skills)
	}
	if criteria.Location != "San Francisco" {
		t.Fatalf("unexpected location: %q", criteria.Location)
	}
	if !strings.Contains(stub.lastPrompt, "Senior React developer in San Francisco") {
		t.Fatalf("query missing from prompt")
	}
}

func TestParseFencedResponse(t *testing.T) {
	stub := &stubCompleter{response: "```json\n{\"jobTitle\": \"Go Developer\", \"skills\": [], \"keywords\": []}\n```"}

	parser := NewParser(stub, zap.NewNop())

	criteria := parser.Parse(context.Background(), "Go developer")
	if criteria.JobTitle != "Go Developer" {
		t.Fatalf("unexpected job title: %q", criteria.JobTitle)
	}
}

func TestParseFallbackOnCompleterError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("service unreachable")}
	parser := NewParser(stub, zap.NewNop())

	criteria := parser.Parse(context.Background(), "Senior React developer")

	if criteria.JobTitle != "Senior React developer" {
		t.Fatalf("expected pass-through job title, got %q", criteria.JobTitle)
	}
	if !reflect.DeepEqual(criteria.Keywords, []string{"Senior", "React", "developer"}) {
		t.Fatalf("unexpected keywords: %v", criteria.Keywords)
	}
	if criteria.Skills == nil || len(criteria.Skills) != 0 {
		t.Fatalf("expected empty skills, got %#v", criteria.Skills)
	}
}

func TestParseFallbackOnUnparsableOutput(t *testing.T) {
	stub := &stubCompleter{response: "I am sorry, I cannot help with that."}
	parser := NewParser(stub, zap.NewNop())

	criteria := parser.Parse(context.Background(), "data engineer")

	if criteria.JobTitle != "data engineer" {
		t.Fatalf("expected pass-through job title, got %q", criteria.JobTitle)
	}
	if criteria.Keywords == nil {
		t.Fatalf("keywords must never be nil")
	}
}

func TestParseKeywordsNeverNil(t *testing.T) {
	stub := &stubCompleter{response: `{"jobTitle": "Engineer", "skills": null, "keywords": null}`}
	parser := NewParser(stub, zap.NewNop())

	criteria := parser.Parse(context.Background(), "engineer")

	if criteria.Keywords == nil {
		t.Fatalf("keywords must never be nil")
	}
	if criteria.Skills == nil {
		t.Fatalf("skills must never be nil")
	}
}
