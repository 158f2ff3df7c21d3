package errors

import (
	"strings"
	"unicode"
)

// ValidatePanelID validates a panel identifier. Panel IDs end up in SVG
// element IDs and derived file names, so the rules are conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No path separators or quotes
//   - Maximum length of 128 characters
func ValidatePanelID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLayout, "panel id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidLayout, "panel id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidLayout, "panel id %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, `/\"'<>&`) {
		return New(ErrCodeInvalidLayout, "panel id %q contains invalid characters", id)
	}
	return nil
}
