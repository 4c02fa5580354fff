package mcp

import (
	"encoding/json"
	"unicode/utf8"
)

// redactMCPBody replaces search queries in MCP payloads with their length.
func redactMCPBody(raw string) string {
	if raw == "" {
		return raw
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return raw
	}
	out, err := json.Marshal(redactMCPValue(payload))
	if err != nil {
		return raw
	}
	return string(out)
}

// redactMCPValue recursively redacts nested payloads.
func redactMCPValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return redactMCPMap(v)
	case []any:
		result := make([]any, 0, len(v))
		for _, item := range v {
			result = append(result, redactMCPValue(item))
		}
		return result
	default:
		return value
	}
}

func redactMCPMap(input map[string]any) map[string]any {
	output := make(map[string]any, len(input))
	for key, value := range input {
		output[key] = redactMCPValue(value)
	}

	if args, ok := output["arguments"].(map[string]any); ok {
		if query, ok := args["query"].(string); ok {
			args["query"] = map[string]any{
				"redacted": true,
				"length":   utf8.RuneCountInString(query),
			}
		}
	}
	return output
}

// redactHookPayload renders a redacted JSON string for hook logging.
func redactHookPayload(payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return redactMCPBody(string(data))
}
