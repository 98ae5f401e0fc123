package ai

import "testing"

func TestExtractContent(t *testing.T) {
	cases := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "plain string", input: "  hello  ", expected: "hello"},
		{name: "content field", input: map[string]any{"content": "from content"}, expected: "from content"},
		{name: "text field", input: map[string]any{"text": "from text"}, expected: "from text"},
		{name: "content wins over text", input: map[string]any{"content": "a", "text": "b"}, expected: "a"},
		{name: "nested content", input: map[string]any{"content": map[string]any{"text": "deep"}}, expected: "deep"},
		{name: "stringified object", input: map[string]any{"other": "x"}, expected: `{"other":"x"}`},
		{name: "nil", input: nil, expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractContent(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json tagged",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "untagged",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounded by prose",
			input:    "Here you go:\n```json\n{\"a\": 1}\n```\nLet me know!",
			expected: `{"a": 1}`,
		},
		{
			name:     "whitespace inside fence",
			input:    "```json\n  {\"a\": 1}  \n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "no fence",
			input:    "  {\"a\": 1}  ",
			expected: `{"a": 1}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFence(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
