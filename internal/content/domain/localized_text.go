package domain

import (
	"encoding/json"
	"strings"
)

// LocalizedText holds a primary-language value and an optional translation
type LocalizedText struct {
	Primary   string `json:"primary"`
	Localized string `json:"localized,omitempty"`
}

// NewLocalizedText normalises both raw store values
func NewLocalizedText(primary, localized string) LocalizedText {
	return LocalizedText{
		Primary:   NormalizeText(primary),
		Localized: NormalizeText(localized),
	}
}

// Resolve walks the fallback chain: localized (when wanted) → primary → placeholder
func (t LocalizedText) Resolve(wantLocalized bool, placeholder string) string {
	if wantLocalized && t.Localized != "" {
		return t.Localized
	}
	if t.Primary != "" {
		return t.Primary
	}
	if t.Localized != "" {
		return t.Localized
	}
	return placeholder
}

func (t LocalizedText) IsEmpty() bool {
	return t.Primary == "" && t.Localized == ""
}

// NormalizeText flattens the loosely typed text columns: a JSON array of
// strings is joined with ", ", a JSON string is unquoted, anything else is
// returned trimmed.
func NormalizeText(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || s == "null" {
		return ""
	}

	switch s[0] {
	case '[':
		var items []interface{}
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return s
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			str, ok := item.(string)
			if !ok {
				continue
			}
			if str = strings.TrimSpace(str); str != "" {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, ", ")
	case '"':
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return s
		}
		return strings.TrimSpace(str)
	}
	return s
}
