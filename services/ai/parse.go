package ai

import (
	"encoding/json"
	"strings"
)

// StripFences removes markdown code fences the model wraps around JSON.
func StripFences(reply string) string {
	cleaned := strings.ReplaceAll(reply, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// DecodeReply strips fences from reply and unmarshals the rest into v.
func DecodeReply(reply string, v any) error {
	cleaned := StripFences(reply)
	if cleaned == "" {
		return malformed("The AI returned an empty response.", errEmptyReply)
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return malformed("The AI returned a response that is not valid JSON.", err)
	}
	return nil
}
