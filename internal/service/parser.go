package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/beauteq/salonbot/internal/domain"
)

// functionCallRe matches the first delimited action block, non-greedy.
// The tags are part of the model prompt contract.
var functionCallRe = regexp.MustCompile(`(?s)<function_call>(.*?)</function_call>`)

// ParseModelResponse extracts exactly one action from raw model output.
// Anything that is not a well-formed call degrades to plain text; parsing
// never fails.
func ParseModelResponse(raw string) domain.Action {
	text := strings.TrimSpace(raw)

	m := functionCallRe.FindStringSubmatch(text)
	if m == nil {
		return plainText(text)
	}

	var call struct {
		Function   string         `json:"function"`
		Parameters map[string]any `json:"parameters"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &call); err != nil {
		return plainText(text)
	}
	if call.Function == "" {
		return plainText(text)
	}

	params := call.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return domain.Action{Kind: call.Function, Params: params}
}

func plainText(text string) domain.Action {
	return domain.Action{
		Kind:   domain.ActionPlainText,
		Params: map[string]any{"text": text},
		Text:   text,
	}
}
