// internal/render/render.go
package render

import (
	"strings"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// Placeholders lists the tokens recognized in template subject/content.
// Anything else shaped like {{...}} is left verbatim.
var Placeholders = []string{
	"{{first_name}}",
	"{{last_name}}",
	"{{middle_name}}",
	"{{email}}",
	"{{full_name}}",
}

// Render substitutes every occurrence of the recognized placeholders with
// the recipient's attributes. Missing attributes become the empty string.
// Text without tokens passes through unchanged.
func Render(text string, addr *model.EmailAddress) string {
	result := text
	result = strings.ReplaceAll(result, "{{first_name}}", addr.FirstName)
	result = strings.ReplaceAll(result, "{{last_name}}", addr.LastName)
	result = strings.ReplaceAll(result, "{{middle_name}}", addr.MiddleName)
	result = strings.ReplaceAll(result, "{{email}}", addr.Email)
	result = strings.ReplaceAll(result, "{{full_name}}", FullName(addr))
	return result
}

// FullName composes the canonical display name: last name, middle name
// (when present), first name.
func FullName(addr *model.EmailAddress) string {
	if addr.MiddleName != "" {
		return addr.LastName + " " + addr.MiddleName + " " + addr.FirstName
	}
	return addr.LastName + " " + addr.FirstName
}

// UsedPlaceholders returns which recognized placeholders appear in text,
// in the canonical order.
func UsedPlaceholders(text string) []string {
	used := []string{}
	for _, p := range Placeholders {
		if strings.Contains(text, p) {
			used = append(used, p)
		}
	}
	return used
}
