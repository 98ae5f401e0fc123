package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Completer issues a single completion round-trip: a system instruction plus
// a user prompt, returning the model's textual answer.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?[ \t]*\n(.*?)\n[ \t]*```")

// ExtractContent unwraps a completion response of unknown shape into a single
// string. Priority order: plain string, a `content` field, a `text` field,
// then a JSON rendering of the whole value.
func ExtractContent(resp any) string {
	switch v := resp.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if content, ok := v["content"]; ok && content != nil {
			return ExtractContent(content)
		}
		if text, ok := v["text"]; ok && text != nil {
			return ExtractContent(text)
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return strings.TrimSpace(fmt.Sprintf("%v", resp))
	}

	return strings.TrimSpace(string(data))
}

// StripCodeFence removes a triple-backtick code fence, optionally tagged
// `json`, returning the fenced body with surrounding whitespace removed. Input
// without a fence is returned trimmed.
func StripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if match := codeFence.FindStringSubmatch(raw); match != nil {
		return strings.TrimSpace(match[1])
	}
	return raw
}
