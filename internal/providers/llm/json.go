package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\{\\[][\\s\\S]*[\\}\\]])\\s*```")

// DecodeJSON unmarshals provider output into dst, tolerating markdown code
// fences around the payload.
func DecodeJSON(text string, dst any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("empty response")
	}
	if err := json.Unmarshal([]byte(text), dst); err == nil {
		return nil
	}
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return json.Unmarshal([]byte(m[1]), dst)
	}
	return errors.New("response is not valid JSON")
}
